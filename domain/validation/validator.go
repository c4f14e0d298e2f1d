package validation

import (
	"fmt"

	"annexval/domain/coercion"
	"annexval/domain/rules"
	"annexval/domain/table"
)

// Per-column checks. Each returns nil when the column passes. Missing cells
// are skipped everywhere except the mandatory check, so a coerced column
// whose unparseable cells became missing markers validates clean.

func checkMandatory(field string, column []table.Value) *Finding {
	missing := 0
	for _, v := range column {
		if v.IsMissing {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}
	return &Finding{
		Field:   field,
		Kind:    KindMandatoryViolation,
		Message: fmt.Sprintf("Mandatory field '%s' has %d missing value(s)", field, missing),
	}
}

func checkNumber(field string, column []table.Value) *Finding {
	present, bad := 0, 0
	for _, v := range column {
		if v.IsMissing {
			continue
		}
		present++
		if v.IsNumber() {
			continue
		}
		if _, ok := table.ParseNumber(v.StringForm()); !ok {
			bad++
		}
	}
	if bad == 0 {
		return nil
	}
	return &Finding{
		Field:   field,
		Kind:    KindTypeViolation,
		Message: fmt.Sprintf("Field '%s' should be a number: %d of %d values do not parse", field, bad, present),
	}
}

// checkDate is the master-rule date check: best-effort parsing, any
// recognizable date convention counts. Failures are fixable because a date
// coercion can usually repair the column.
func checkDate(field string, column []table.Value, suggestedFormat string) *Finding {
	present, bad := 0, 0
	for _, v := range column {
		if v.IsMissing {
			continue
		}
		present++
		if v.IsDate() {
			continue
		}
		if _, _, ok := table.ParseDateAny(v.StringForm()); !ok {
			bad++
		}
	}
	if bad == 0 {
		return nil
	}
	return &Finding{
		Field:           field,
		Kind:            KindTypeViolation,
		Message:         fmt.Sprintf("Field '%s' should be a date: %d of %d values do not parse", field, bad, present),
		Fixable:         true,
		SuggestedType:   coercion.TargetDate,
		SuggestedFormat: suggestedFormat,
	}
}

func checkPattern(spec rules.FieldSpec, column []table.Value) *Finding {
	bad := 0
	for _, v := range column {
		if v.IsMissing {
			continue
		}
		if !spec.Pattern.MatchString(v.StringForm()) {
			bad++
		}
	}
	if bad == 0 {
		return nil
	}
	return &Finding{
		Field: spec.FieldName,
		Kind:  KindPatternViolation,
		Message: fmt.Sprintf("Field '%s' has %d value(s) not matching pattern %q",
			spec.FieldName, bad, spec.PatternExpr),
	}
}

// checkHeaderFormat is the strict header-driven check: every present value
// must parse under the exact layout inferred from the column name.
func checkHeaderFormat(field, format, layout string, column []table.Value) *Finding {
	bad := 0
	for _, v := range column {
		if v.IsMissing {
			continue
		}
		if v.IsDate() && v.DateLayout == layout {
			continue
		}
		if _, ok := table.ParseDate(v.StringForm(), layout); !ok {
			bad++
		}
	}
	if bad == 0 {
		return nil
	}
	noun := "date"
	if format == rules.TokenDateTime {
		noun = "datetime"
	}
	return &Finding{
		Field:           field,
		Kind:            KindFormatViolation,
		Message:         fmt.Sprintf("Field '%s' should be a %s in format %s", field, noun, format),
		Fixable:         true,
		SuggestedType:   coercion.TargetDate,
		SuggestedFormat: format,
	}
}
