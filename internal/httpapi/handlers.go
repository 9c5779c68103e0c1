package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegrjumin/siteaudit/internal/checker"
	"github.com/olegrjumin/siteaudit/internal/logging"
	"github.com/olegrjumin/siteaudit/internal/report"
	"github.com/olegrjumin/siteaudit/internal/service"
)

const maxRequestBody = 1 << 20

// analyzeRequest represents the JSON request body for /analyze
type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeHandler handles POST requests to /analyze and returns the full report
func analyzeHandler(svc *service.Service, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req analyzeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		result, err := svc.Analyze(r.Context(), req.URL)
		if err != nil {
			writeAnalysisError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// streamHandler handles GET /analyze/stream?url= as server-sent events,
// one event per completed stage
func streamHandler(svc *service.Service, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// EventSource only supports GET
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		target := r.URL.Query().Get("url")
		if _, err := checker.ValidateURL(target); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		log := requestLogger(logger, r)
		for stage := range svc.AnalyzeStreaming(r.Context(), target) {
			data, err := json.Marshal(stage)
			if err != nil {
				log.Error("Failed to marshal stage", "stage", stage.Stage, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", stage.Stage, data); err != nil {
				log.Warn("Stream client went away", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// reportHandler handles GET /report?url=&format= and returns a rendered report.
// The format defaults to html.
func reportHandler(svc *service.Service, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		formatName := q.Get("format")
		if formatName == "" {
			formatName = string(report.FormatHTML)
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.Analyze(r.Context(), q.Get("url"))
		if err != nil {
			writeAnalysisError(w, r, logger, err)
			return
		}

		var buf bytes.Buffer
		if err := report.Render(&buf, result, format); err != nil {
			requestLogger(logger, r).Error("Failed to render report", "format", format, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// statusForError maps analysis failures to HTTP status codes
func statusForError(err error) int {
	var fetchErr *checker.FetchError
	switch {
	case errors.Is(err, checker.ErrMissingURL), errors.Is(err, checker.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr) && fetchErr.Timeout():
		return http.StatusGatewayTimeout
	case errors.Is(err, checker.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAnalysisError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		requestLogger(logger, r).Error("Analysis failed", "error", err)
		writeError(w, status, "internal server error")
		return
	}

	body := map[string]string{"error": err.Error()}
	var fetchErr *checker.FetchError
	if errors.As(err, &fetchErr) {
		body["kind"] = fetchErr.Kind
	}
	writeJSON(w, status, body)
}

// bearerToken extracts the token from an "Authorization: Bearer" header
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
