package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document wraps parsed HTML for the analyzers.
// It is never mutated after construction and is safe for concurrent reads.
type Document struct {
	doc    *goquery.Document
	source string
}

// NewDocument parses raw HTML. It never fails: the HTML5 parser repairs
// malformed markup, and a read error leaves an empty document.
func NewDocument(rawHTML string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc, source: rawHTML}
}

// Find returns the elements matching a CSS selector.
// Invalid selectors and absent elements yield an empty selection.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Source returns the original HTML for whole-document pattern scans
func (d *Document) Source() string {
	return d.source
}

// VisibleText returns the body text with script, style and template content removed
func (d *Document) VisibleText() string {
	var text strings.Builder
	for _, n := range d.doc.Find("body").Nodes {
		collectVisibleText(n, &text)
	}
	return text.String()
}

// ElementTexts returns the visible descendant text of every element inside
// body, innermost elements first. Script, style and template content is skipped.
func (d *Document) ElementTexts() []string {
	var texts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || isHiddenTextElement(c.Data) {
				continue
			}
			walk(c)
			var text strings.Builder
			collectVisibleText(c, &text)
			if s := strings.TrimSpace(text.String()); s != "" {
				texts = append(texts, s)
			}
		}
	}
	for _, n := range d.doc.Find("body").Nodes {
		walk(n)
	}
	return texts
}

// Comments returns the content of every HTML comment in document order
func (d *Document) Comments() []string {
	var comments []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range d.doc.Nodes {
		walk(n)
	}
	return comments
}

// attrValue reads an attribute, returning "" when absent
func attrValue(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// assetURLs collects src and href values from elements that load resources
func (d *Document) assetURLs() []string {
	var urls []string
	d.Find("script[src], link[href], img[src], source[src], iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if v := attrValue(s, "src"); v != "" {
			urls = append(urls, v)
		}
		if v := attrValue(s, "href"); v != "" {
			urls = append(urls, v)
		}
	})
	return urls
}

func collectVisibleText(n *html.Node, text *strings.Builder) {
	if n.Type == html.ElementNode && isHiddenTextElement(n.Data) {
		return
	}
	if n.Type == html.TextNode {
		text.WriteString(n.Data)
		text.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectVisibleText(c, text)
	}
}

func isHiddenTextElement(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
