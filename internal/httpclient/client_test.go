package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/middle", http.StatusFound)
	})
	mux.HandleFunc("/middle", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", ua)
		}
		w.Header().Set("X-Frame-Options", "DENY")
		w.Write([]byte("<html><body>ok</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := NewClient().Fetch(context.Background(), srv.URL+"/start", FetchOptions{
		UserAgent:    "test-agent",
		MaxRedirects: 5,
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Redirects != 2 {
		t.Errorf("Redirects = %d, want 2", resp.Redirects)
	}
	if !strings.HasSuffix(resp.FinalURL, "/final") {
		t.Errorf("FinalURL = %q, want suffix /final", resp.FinalURL)
	}
	if string(resp.Body) != "<html><body>ok</body></html>" {
		t.Errorf("Body = %q", resp.Body)
	}
	if resp.Header.Get("X-Frame-Options") != "DENY" {
		t.Errorf("header not propagated")
	}
}

func TestFetchTooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	_, err := NewClient().Fetch(context.Background(), srv.URL, FetchOptions{MaxRedirects: 2})
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Fatalf("Fetch() error = %v, want ErrTooManyRedirects", err)
	}
}

func TestFetchLimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	resp, err := NewClient().Fetch(context.Background(), srv.URL, FetchOptions{MaxBodyBytes: 10})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(resp.Body) != 10 || !resp.Truncated {
		t.Errorf("len(Body) = %d, Truncated = %v; want 10, true", len(resp.Body), resp.Truncated)
	}
}

func TestFetchReturnsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := NewClient().Fetch(context.Background(), srv.URL, FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
}

func TestHeadFollowsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/home", http.StatusMovedPermanently)
			return
		}
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
	}))
	defer srv.Close()

	resp, err := NewClient().Head(context.Background(), srv.URL+"/", FetchOptions{MaxRedirects: 5})
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Redirects != 1 {
		t.Errorf("status = %d, redirects = %d; want 200 after 1 redirect", resp.StatusCode, resp.Redirects)
	}
	if resp.FinalURL != srv.URL+"/home" {
		t.Errorf("FinalURL = %q, want %q", resp.FinalURL, srv.URL+"/home")
	}
	if resp.Header.Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header from the final page")
	}
	if resp.Timings == nil || resp.Timings.RequestStart.IsZero() {
		t.Error("expected timings to be recorded")
	}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		current  string
		location string
		want     string
	}{
		{"https://example.com/a/b", "/c", "https://example.com/c"},
		{"https://example.com/a/b", "c", "https://example.com/a/c"},
		{"https://example.com/a", "https://other.org/", "https://other.org/"},
	}

	for _, tt := range tests {
		got, err := resolveLocation(tt.current, tt.location)
		if err != nil {
			t.Fatalf("resolveLocation(%q, %q) error = %v", tt.current, tt.location, err)
		}
		if got != tt.want {
			t.Errorf("resolveLocation(%q, %q) = %q, want %q", tt.current, tt.location, got, tt.want)
		}
	}
}
