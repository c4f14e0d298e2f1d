package ports

import "annexval/domain/validation"

// ReportRenderer turns a validation report into displayable documents.
type ReportRenderer interface {
	RenderMarkdown(report *validation.Report) []byte
	RenderHTML(report *validation.Report) []byte
}
