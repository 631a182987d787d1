// Package markdown renders user-written post bodies to HTML.
package markdown

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer turns post Markdown into HTML. Raw HTML in the source is dropped
// and every link is marked rel="nofollow ugc".
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(util.Prioritized(userLinks{}, 100)),
			),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
	}
}

// Convert renders source to HTML
func (r *Renderer) Convert(source string) ([]byte, error) {
	var buf bytes.Buffer
	err := r.md.Convert([]byte(source), &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render is Convert for templates; on error the source is shown escaped
func (r *Renderer) Render(source string) template.HTML {
	out, err := r.Convert(source)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return template.HTML("<p>" + template.HTMLEscapeString(source) + "</p>")
	}
	return template.HTML(out)
}

var relUGC = []byte("nofollow ugc")

type userLinks struct{}

func (userLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.AutoLink:
			n.SetAttributeString("rel", relUGC)
		}
		return ast.WalkContinue, nil
	})
}
