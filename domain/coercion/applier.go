package coercion

import (
	"annexval/domain/rules"
	"annexval/domain/table"
)

// Applier transforms one column of a working dataset per operator request.
// The column is replaced whole or left untouched; partial writes never
// happen. Values that cannot be parsed under the requested type become
// explicit missing markers rather than failing the coercion.
type Applier struct {
	defaultFormat string
}

// NewApplier returns an applier whose fallback date format is the
// day-month-year convention.
func NewApplier() *Applier {
	return &Applier{defaultFormat: rules.TokenDate}
}

// Apply coerces the requested column in place. It returns a *Error when the
// request itself is invalid (unknown column, unknown target type, bad
// format); per-cell parse failures are not errors.
func (a *Applier) Apply(data *table.Table, req Request) (Result, error) {
	result := Result{Field: req.Field, Target: req.Target}

	column, err := data.Column(req.Field)
	if err != nil {
		return result, newError(req.Field, "column not present in dataset")
	}
	result.Rows = len(column)

	var replacement []table.Value
	switch req.Target {
	case TargetString:
		replacement = coerceString(column)
	case TargetNumber:
		replacement, result.Unparseable = coerceNumber(column)
	case TargetDate:
		format := a.resolveFormat(req)
		layout, err := rules.TranslateFormat(format)
		if err != nil {
			return result, newError(req.Field, "invalid date format %q: %v", format, err)
		}
		result.Format = format
		replacement, result.Unparseable = coerceDate(column, layout)
	default:
		return result, newError(req.Field, "unknown target type %q (expected string, number or date)", string(req.Target))
	}

	if err := data.SetColumn(req.Field, replacement); err != nil {
		return result, newError(req.Field, "replacing column: %v", err)
	}
	return result, nil
}

// resolveFormat picks the date format for a request that did not supply
// one: the column name's inferred format when it matches, otherwise the
// generic default.
func (a *Applier) resolveFormat(req Request) string {
	if req.Format != "" {
		return req.Format
	}
	if format, ok := rules.InferHeaderFormat(req.Field); ok {
		return format
	}
	return a.defaultFormat
}

func coerceString(column []table.Value) []table.Value {
	out := make([]table.Value, len(column))
	for i, v := range column {
		if v.IsMissing {
			out[i] = table.NewMissingValue()
			continue
		}
		out[i] = table.NewStringValue(v.StringForm())
	}
	return out
}

func coerceNumber(column []table.Value) ([]table.Value, int) {
	out := make([]table.Value, len(column))
	unparseable := 0
	for i, v := range column {
		if v.IsMissing {
			out[i] = table.NewMissingValue()
			continue
		}
		if v.IsNumber() {
			out[i] = v
			continue
		}
		n, ok := table.ParseNumber(v.StringForm())
		if !ok {
			out[i] = table.NewMissingValue()
			unparseable++
			continue
		}
		out[i] = table.NewNumberValue(n)
	}
	return out, unparseable
}

// coerceDate parses each cell best-effort and re-renders it under the
// requested layout, so an ISO-formatted source value still lands in the
// operator's chosen format. Strict parsing under the target layout is
// tried first to keep day-first readings unambiguous.
func coerceDate(column []table.Value, layout string) ([]table.Value, int) {
	out := make([]table.Value, len(column))
	unparseable := 0
	for i, v := range column {
		if v.IsMissing {
			out[i] = table.NewMissingValue()
			continue
		}
		if v.IsDate() {
			out[i] = table.NewDateValue(*v.DateVal, layout)
			continue
		}
		raw := v.StringForm()
		if t, ok := table.ParseDate(raw, layout); ok {
			out[i] = table.NewDateValue(t, layout)
			continue
		}
		if t, _, ok := table.ParseDateAny(raw); ok {
			out[i] = table.NewDateValue(t, layout)
			continue
		}
		out[i] = table.NewMissingValue()
		unparseable++
	}
	return out, unparseable
}
