package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"

	"github.com/olegrjumin/siteaudit/internal/checker"
	"github.com/olegrjumin/siteaudit/internal/config"
	"github.com/olegrjumin/siteaudit/internal/logging"
	"github.com/olegrjumin/siteaudit/internal/report"
	"github.com/olegrjumin/siteaudit/internal/service"
)

const samplePage = `<!DOCTYPE html><html><head><title>t</title></head>
<body><h1>Hi</h1><img src="a.png" alt="A dog"></body></html>`

func newTestSvc(t *testing.T) *service.Service {
	t.Helper()
	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	return service.New(newChecker(cfg), logging.NewNop(), nil, checkerOptions(cfg))
}

func newPage(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(samplePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAnalyzeSummary(t *testing.T) {
	color.NoColor = true
	srv := newPage(t)

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, newTestSvc(t), srv.URL, ""); err != nil {
		t.Fatalf("runAnalyze() error = %v", err)
	}
	for _, want := range []string{srv.URL, "Overall:", "Security:", "GDPR:", "Accessibility:", "Recommendations:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected summary to contain %q\n%s", want, out.String())
		}
	}
}

func TestRunAnalyzeJSON(t *testing.T) {
	srv := newPage(t)

	var out bytes.Buffer
	if err := runAnalyze(context.Background(), &out, newTestSvc(t), srv.URL, report.FormatJSON); err != nil {
		t.Fatalf("runAnalyze() error = %v", err)
	}
	var r checker.AnalysisReport
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if r.Accessibility.MissingAltImages != 0 {
		t.Errorf("Expected no missing alt images, got %d", r.Accessibility.MissingAltImages)
	}
}

func TestRunAnalyzeExitCodes(t *testing.T) {
	srv := newPage(t)
	svc := newTestSvc(t)

	tests := []struct {
		url  string
		want int
	}{
		{"", exitInvalidURL},
		{"ftp://example.com", exitInvalidURL},
		{srv.URL + "/gone", exitFetchFailed},
	}
	for _, tt := range tests {
		err := runAnalyze(context.Background(), &bytes.Buffer{}, svc, tt.url, report.FormatJSON)
		if got := exitCode(err); got != tt.want {
			t.Errorf("runAnalyze(%q) exit code = %d, want %d (err %v)", tt.url, got, tt.want, err)
		}
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != exitOK {
		t.Error("Expected 0 for nil")
	}
	if exitCode(errors.New("x")) != exitFailure {
		t.Error("Expected 1 for plain errors")
	}
	wrapped := fmt.Errorf("outer: %w", &exitError{code: exitFetchFailed, err: errors.New("x")})
	if exitCode(wrapped) != exitFetchFailed {
		t.Error("Expected wrapped exit code")
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "siteaudit version dev") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestHashPasswordCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("hunter2\n"))
	root.SetArgs([]string{"hash-password"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")) != nil {
		t.Errorf("Expected a bcrypt hash of the password, got %q", hash)
	}
}

func TestAnalyzeCmdFlags(t *testing.T) {
	srv := newPage(t)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", "--format", "markdown", "--user-agent", "test-agent", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "# Site audit:") {
		t.Errorf("Expected markdown output, got %q", out.String())
	}
}

func TestCheckerOptions(t *testing.T) {
	cfg, _ := config.Load("", nil)
	opts := checkerOptions(cfg)
	if opts.Timeout != cfg.RequestTimeout || opts.MaxBodyBytes != cfg.MaxBodyBytes || opts.UserAgent != cfg.UserAgent {
		t.Errorf("Options not taken from config: %+v", opts)
	}
}
