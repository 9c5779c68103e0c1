package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APISource asks an HTTP URL-check service whether a URL is malicious.
// The service answers GET {base}/url/check?url=... with {"is_malicious": bool}.
type APISource struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// apiResponse represents the response from the URL-check API
type apiResponse struct {
	IsMalicious bool   `json:"is_malicious"`
	Category    string `json:"category,omitempty"`
}

// NewAPISource creates a new URL-check API source
func NewAPISource(baseURL, userAgent string) *APISource {
	return &APISource{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		// bounded by the caller's context deadline (reputation_timeout)
		httpClient: &http.Client{},
	}
}

// Name identifies the source in reports
func (s *APISource) Name() string {
	return "url-check-api"
}

// Check calls the API for one URL
func (s *APISource) Check(ctx context.Context, targetURL string) (bool, string, error) {
	apiURL := fmt.Sprintf("%s/url/check", s.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return false, "", fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("url", targetURL)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("failed to call URL-check API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("URL-check API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return false, "", fmt.Errorf("failed to parse URL-check API response: %w", err)
	}

	detail := "not listed"
	if apiResp.IsMalicious {
		detail = "flagged as malicious"
		if apiResp.Category != "" {
			detail += " (" + apiResp.Category + ")"
		}
	}
	return apiResp.IsMalicious, detail, nil
}
