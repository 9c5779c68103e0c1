package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olegrjumin/siteaudit/internal/checker"
)

// Format selects a rendering
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts json, markdown (or md), html, text and pdf
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "text", "":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the HTTP media type of a format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes the report in the given format
func Render(w io.Writer, r *checker.AnalysisReport, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		page, err := HTMLPage(Markdown(r), r.URL)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	case FormatPDF:
		doc, err := PDF(r)
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	default:
		_, err := io.WriteString(w, Text(r))
		return err
	}
}
