package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/olegrjumin/siteaudit/internal/logging"
	"github.com/olegrjumin/siteaudit/internal/service"
	"github.com/olegrjumin/siteaudit/internal/session"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// loginHandler handles POST /admin/login and issues a bearer token
func loginHandler(auth *session.Authenticator, logger *logging.Logger, trusted []netip.Prefix) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		token, expiresAt, err := auth.Login(r.Context(), req.Password)
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			requestLogger(logger, r).Warn("Admin login rejected", "client_ip", clientIP(r, trusted))
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		case errors.Is(err, session.ErrAdminDisabled):
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		case err != nil:
			requestLogger(logger, r).Error("Failed to issue session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt.UTC()})
	}
}

// requireToken rejects requests without a live bearer token
func requireToken(auth *session.Authenticator, logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := auth.Authorized(r.Context(), bearerToken(r))
		if err != nil {
			requestLogger(logger, r).Error("Failed to validate session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logoutHandler handles POST /admin/logout and revokes the caller's token
func logoutHandler(auth *session.Authenticator, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := auth.Logout(r.Context(), bearerToken(r)); err != nil {
			requestLogger(logger, r).Error("Failed to revoke session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// eventsHandler handles GET /admin/events?limit= and lists recent analyses
func eventsHandler(svc *service.Service, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		limit := defaultEventLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxEventLimit)
		}

		evts, err := svc.RecentEvents(r.Context(), limit)
		if err != nil {
			requestLogger(logger, r).Error("Failed to read events", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"events": evts})
	}
}
