// Package markdown renders article bodies to HTML. Articles are written
// in GitHub Flavored Markdown and may embed raw HTML, which is passed
// through untouched since authors are trusted admin users.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render converts a Markdown document to HTML.
func Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Excerpt returns the first maxLen characters of the document's plain
// text, suitable for search index snippets and meta descriptions.
func Excerpt(source []byte, maxLen int) string {
	root := md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(sb.String()), " ")
	runes := []rune(plain)
	if maxLen > 0 && len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return plain
}

// Link is a hyperlink found in a Markdown document.
type Link struct {
	Text        string
	Destination string
}

// ExtractLinks returns every inline link in the document. Images and
// autolinks are skipped.
func ExtractLinks(source []byte) []Link {
	root := md.Parser().Parse(text.NewReader(source))

	var links []Link
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if l, ok := n.(*gmast.Link); ok {
			links = append(links, Link{
				Text:        string(l.Text(source)),
				Destination: string(l.Destination),
			})
		}
		return gmast.WalkContinue, nil
	})
	return links
}
