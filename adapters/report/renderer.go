package report

import (
	"fmt"
	"strings"

	"annexval/domain/validation"
	"annexval/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Renderer turns a validation report into markdown and HTML documents for
// the error-report sink. Rendering is presentation only; the structured
// report stays the source of truth.
type Renderer struct{}

// NewRenderer creates a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

var _ ports.ReportRenderer = (*Renderer)(nil)

// RenderMarkdown produces the markdown form of a report: the non-fixable
// list first, then a fix-prompt table with one row per fixable field.
func (r *Renderer) RenderMarkdown(report *validation.Report) []byte {
	var b strings.Builder
	b.WriteString("# Validation Report\n\n")
	b.WriteString(report.Summary())
	b.WriteString("\n")

	if len(report.NonFixable) > 0 {
		b.WriteString("\n## Issues requiring source changes\n\n")
		for _, f := range report.NonFixable {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.Field, f.Kind, f.Message)
		}
	}

	if len(report.Fixable) > 0 {
		b.WriteString("\n## Fixable issues\n\n")
		b.WriteString("| Field | Issue | Suggested Type | Suggested Format |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range report.Fixable {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				f.Field, f.Message, f.SuggestedType, f.SuggestedFormat)
		}
	}

	return []byte(b.String())
}

// RenderHTML converts the markdown form into a standalone HTML fragment.
func (r *Renderer) RenderHTML(report *validation.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(r.RenderMarkdown(report))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
