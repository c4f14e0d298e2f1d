package validation

import (
	"fmt"

	"annexval/domain/rules"
	"annexval/domain/table"
)

// Engine runs a compiled rule set plus the always-on header-format checks
// over a dataset snapshot. Validation is read-only and deterministic:
// running it twice on the same snapshot yields identical reports, so the
// caller can cheaply re-run it after every coercion.
type Engine struct{}

// NewEngine creates a validation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Validate checks every rule field and every dataset column, partitioning
// findings into the non-fixable list and the per-field fixable prompts.
func (e *Engine) Validate(spec *rules.ValidationSpec, data *table.Table) *Report {
	report := &Report{}

	// Missing columns surface first, aggregated for the whole run.
	for _, field := range spec.FieldNames() {
		if data.HasColumn(field) {
			continue
		}
		report.NonFixable = append(report.NonFixable, Finding{
			Field:   field,
			Kind:    KindMissingColumn,
			Message: fmt.Sprintf("Column '%s' is missing from the dataset", field),
		})
	}

	fixable := make(map[string]Finding)

	// Master-rule checks, in rule order.
	for _, field := range spec.FieldNames() {
		fs, ok := spec.Field(field)
		if !ok || !data.HasColumn(field) {
			continue
		}
		column, err := data.Column(field)
		if err != nil {
			continue
		}

		if fs.Mandatory {
			if f := checkMandatory(field, column); f != nil {
				report.NonFixable = append(report.NonFixable, *f)
			}
		}

		switch fs.DataType {
		case rules.DataTypeNumber:
			if f := checkNumber(field, column); f != nil {
				report.NonFixable = append(report.NonFixable, *f)
			}
		case rules.DataTypeDate:
			if f := checkDate(field, column, defaultFixFormat(field)); f != nil {
				fixable[field] = *f
			}
		}

		if fs.HasPattern() {
			if f := checkPattern(fs, column); f != nil {
				report.NonFixable = append(report.NonFixable, *f)
			}
		}
	}

	// Header-driven format checks run for every dataset column, whether or
	// not a rule covers it. When a field already has a fixable date finding
	// the format finding wins: its inferred format is the more specific fix.
	for _, field := range data.Columns() {
		format, ok := rules.InferHeaderFormat(field)
		if !ok {
			continue
		}
		layout, err := rules.TranslateFormat(format)
		if err != nil {
			continue
		}
		column, err := data.Column(field)
		if err != nil {
			continue
		}
		if f := checkHeaderFormat(field, format, layout, column); f != nil {
			fixable[field] = *f
		}
	}

	// One fixable entry per field, in dataset column order.
	for _, field := range data.Columns() {
		if f, ok := fixable[field]; ok {
			report.Fixable = append(report.Fixable, f)
		}
	}

	return report
}

// defaultFixFormat picks the format suggested alongside a date-rule
// violation: header-driven when the column name matches, otherwise the
// generic day-month-year default.
func defaultFixFormat(field string) string {
	if format, ok := rules.InferHeaderFormat(field); ok {
		return format
	}
	return rules.TokenDate
}
