package httpapi

import (
	"encoding/json"
	"net/http"
	"net/netip"
	"time"

	"github.com/olegrjumin/siteaudit/internal/logging"
	"github.com/olegrjumin/siteaudit/internal/service"
	"github.com/olegrjumin/siteaudit/internal/session"
)

// Config wires the server's collaborators
type Config struct {
	Service *service.Service
	Logger  *logging.Logger
	// Auth enables the /admin endpoints; nil leaves them unregistered
	Auth      *session.Authenticator
	RateLimit float64 // Requests per second per client IP (0 = disabled)
	RateBurst int
	// TrustedProxies may set X-Forwarded-For; other clients are keyed by remote address
	TrustedProxies []netip.Prefix
}

// NewHandler builds the routed handler with its middleware chain
func NewHandler(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/analyze", analyzeHandler(cfg.Service, cfg.Logger))
	mux.HandleFunc("/analyze/stream", streamHandler(cfg.Service, cfg.Logger))
	mux.HandleFunc("/report", reportHandler(cfg.Service, cfg.Logger))

	if cfg.Auth != nil {
		mux.HandleFunc("/admin/login", loginHandler(cfg.Auth, cfg.Logger, cfg.TrustedProxies))
		mux.Handle("/admin/logout", requireToken(cfg.Auth, cfg.Logger, logoutHandler(cfg.Auth, cfg.Logger)))
		mux.Handle("/admin/events", requireToken(cfg.Auth, cfg.Logger, eventsHandler(cfg.Service, cfg.Logger)))
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(cfg.Logger, cfg.RateLimit, cfg.RateBurst, cfg.TrustedProxies, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// NewServer creates and configures a new HTTP server
func NewServer(addr string, cfg Config) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// healthHandler handles GET requests to /health
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "siteaudit",
	})
}

// writeJSON sets the JSON content type, the status and encodes data
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
