package rules

import (
	"regexp"
	"strings"

	"annexval/internal/errors"
)

// regexPrefix marks a validation expression as a full-string regular
// expression constraint. The prefix match is case-insensitive; the pattern
// after it is taken verbatim (trimmed).
const regexPrefix = "regex:"

// Compile turns a raw rule table into an immutable ValidationSpec. Any
// malformed row aborts the whole compile with a SCHEMA_ERROR: a broken
// master must be fixed upstream, never partially applied.
//
// Duplicate field names follow last-row-wins: the later row replaces the
// earlier rule while the field keeps its first position in iteration order.
func Compile(table RuleTable) (*ValidationSpec, error) {
	spec := &ValidationSpec{fields: make(map[string]FieldSpec, len(table))}

	for i, row := range table {
		if isBlankRow(row) {
			continue
		}
		if len(row) != RuleColumns {
			return nil, errors.SchemaErrorf("rule table row %d: expected exactly %d columns, got %d", i+1, RuleColumns, len(row))
		}

		fieldName := strings.TrimSpace(row[colFieldName])
		if fieldName == "" {
			return nil, errors.SchemaErrorf("rule table row %d: field name is blank", i+1)
		}

		dataType, err := ParseDataType(row[colDataType])
		if err != nil {
			return nil, errors.SchemaErrorf("rule table row %d: %v", i+1, err)
		}

		field := FieldSpec{
			FieldCode:   strings.TrimSpace(row[colFieldCode]),
			FieldName:   fieldName,
			DataType:    dataType,
			Mandatory:   strings.ToUpper(strings.TrimSpace(row[colMandatory])) == "M",
			Description: strings.TrimSpace(row[colDescription]),
		}

		if expr, ok := patternExpression(row[colValidation]); ok {
			if expr == "" {
				return nil, errors.SchemaErrorf("rule table row %d: empty pattern after %q", i+1, regexPrefix)
			}
			// Anchor so the whole value must match, not a substring.
			compiled, err := regexp.Compile("^(?:" + expr + ")$")
			if err != nil {
				return nil, errors.SchemaErrorf("rule table row %d: invalid pattern %q: %v", i+1, expr, err)
			}
			field.Pattern = compiled
			field.PatternExpr = expr
		}

		if _, seen := spec.fields[fieldName]; !seen {
			spec.order = append(spec.order, fieldName)
		}
		spec.fields[fieldName] = field
	}

	return spec, nil
}

// patternExpression extracts the pattern from a validation expression cell.
// Only values starting with the regex prefix constrain anything; every other
// value is a placeholder for rule syntaxes this engine does not evaluate.
func patternExpression(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < len(regexPrefix) {
		return "", false
	}
	if !strings.EqualFold(trimmed[:len(regexPrefix)], regexPrefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(regexPrefix):]), true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
