// Package markdown converts markdown documents into the HTML pushed to Canvas
// wiki pages.
package markdown

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoTitle is returned when a document lacks a top-level heading to use as
// the page title.
var ErrNoTitle = errors.New("markdown: document has no top-level heading")

// Render converts a markdown document to HTML and splits off its title. The
// first level-one heading becomes the title and is removed from the rendered
// body.
func Render(source string) (title, body string, err error) {
	src := []byte(source)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var heading ast.Node
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*ast.Heading); ok && h.Level == 1 {
			heading = h
			break
		}
	}
	if heading == nil {
		return "", "", ErrNoTitle
	}
	title = nodeText(heading, src)
	doc.RemoveChild(doc, heading)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, doc); err != nil {
		return "", "", err
	}
	return title, buf.String(), nil
}

func nodeText(node ast.Node, src []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
		default:
			sb.WriteString(nodeText(c, src))
		}
	}
	return sb.String()
}
