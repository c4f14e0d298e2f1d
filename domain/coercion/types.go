package coercion

import (
	"errors"
	"fmt"
	"strings"
)

// TargetType is the closed set of types a column can be coerced to.
// Unknown values are rejected at the request boundary instead of being
// silently ignored.
type TargetType string

const (
	TargetString TargetType = "string"
	TargetNumber TargetType = "number"
	TargetDate   TargetType = "date"
)

// ParseTargetType validates an operator-supplied target type string.
func ParseTargetType(raw string) (TargetType, error) {
	switch TargetType(strings.ToLower(strings.TrimSpace(raw))) {
	case TargetString:
		return TargetString, nil
	case TargetNumber:
		return TargetNumber, nil
	case TargetDate:
		return TargetDate, nil
	}
	return "", fmt.Errorf("unknown target type %q (expected string, number or date)", raw)
}

// Request asks for one column to be re-typed. Format is an operator-facing
// token such as "dd-mm-yyyy" and only meaningful for date targets; when
// empty the applier picks a default from the column name.
type Request struct {
	Field  string     `json:"field"`
	Target TargetType `json:"target_type"`
	Format string     `json:"format,omitempty"`
}

// Error reports a coercion that could not be applied at all. The column is
// left untouched; failures never roll back fixes already applied to other
// columns.
type Error struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("coercion of field '%s' failed: %s", e.Field, e.Reason)
}

func newError(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsCoercionError reports whether err is a per-field coercion failure.
func IsCoercionError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Result summarizes an applied coercion for logging and display.
type Result struct {
	Field       string     `json:"field"`
	Target      TargetType `json:"target_type"`
	Format      string     `json:"format,omitempty"`
	Rows        int        `json:"rows"`
	Unparseable int        `json:"unparseable"`
}
