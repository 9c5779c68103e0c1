package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Table))
	policy   = bluemonday.UGCPolicy()
)

// HTMLFragment converts the Markdown rendering into sanitized HTML
func HTMLFragment(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Site audit: %s</title>
</head>
<body>
%s
</body>
</html>
`

// HTMLPage renders the report as a standalone HTML document
func HTMLPage(md, pageURL string) ([]byte, error) {
	body, err := HTMLFragment(md)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(pageTemplate, html.EscapeString(pageURL), body)), nil
}
