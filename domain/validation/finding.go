package validation

import (
	"fmt"

	"annexval/domain/coercion"
)

// Kind classifies a validation finding.
type Kind string

const (
	KindMissingColumn      Kind = "missing_column"
	KindMandatoryViolation Kind = "mandatory_violation"
	KindTypeViolation      Kind = "type_violation"
	KindPatternViolation   Kind = "pattern_violation"
	KindFormatViolation    Kind = "format_violation"
)

// Finding is one field-level validation failure. The report is field-level,
// not row-level: the operator fixes a whole column at once. Fixable findings
// carry a suggested coercion target so the caller can pre-populate a fix
// prompt.
type Finding struct {
	Field           string              `json:"field"`
	Kind            Kind                `json:"kind"`
	Message         string              `json:"message"`
	Fixable         bool                `json:"fixable"`
	SuggestedType   coercion.TargetType `json:"suggested_type,omitempty"`
	SuggestedFormat string              `json:"suggested_format,omitempty"`
}

// Report partitions one validation run's findings. NonFixable lists missing
// columns first, then per-field findings in rule order. Fixable holds at
// most one entry per field, in dataset column order, ready to drive fix
// prompts. Ordering is deterministic so identical snapshots produce
// identical reports.
type Report struct {
	NonFixable []Finding `json:"non_fixable"`
	Fixable    []Finding `json:"fixable"`
}

// Clean reports whether the run produced no findings at all.
func (r *Report) Clean() bool {
	return len(r.NonFixable) == 0 && len(r.Fixable) == 0
}

// Len returns the total number of findings.
func (r *Report) Len() int {
	return len(r.NonFixable) + len(r.Fixable)
}

// FixableFor returns the fixable finding for a field, if any.
func (r *Report) FixableFor(field string) (Finding, bool) {
	for _, f := range r.Fixable {
		if f.Field == field {
			return f, true
		}
	}
	return Finding{}, false
}

// FixableFields lists the fields with an outstanding fixable finding.
func (r *Report) FixableFields() []string {
	fields := make([]string, 0, len(r.Fixable))
	for _, f := range r.Fixable {
		fields = append(fields, f.Field)
	}
	return fields
}

// NonFixableMessages renders the non-fixable findings as display strings.
func (r *Report) NonFixableMessages() []string {
	messages := make([]string, 0, len(r.NonFixable))
	for _, f := range r.NonFixable {
		messages = append(messages, f.Message)
	}
	return messages
}

// Summary provides a human-readable summary of the run.
func (r *Report) Summary() string {
	if r.Clean() {
		return "Validation passed: no findings"
	}
	return fmt.Sprintf("Validation found %d non-fixable and %d fixable issue(s)",
		len(r.NonFixable), len(r.Fixable))
}
