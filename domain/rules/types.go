package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleTable is the raw validation master: ordered rows of exactly six
// positional cells (field code, field name, data type, validation
// expression, mandatory flag, description). Positions are authoritative;
// header names are not.
type RuleTable [][]string

// RuleColumns is the required rule table width
const RuleColumns = 6

// Positional cell indices within a rule row
const (
	colFieldCode = iota
	colFieldName
	colDataType
	colValidation
	colMandatory
	colDescription
)

// DataType is the closed set of rule data types. Unknown type strings are
// rejected at compile time rather than silently ignored.
type DataType string

const (
	DataTypeString DataType = "string"
	DataTypeNumber DataType = "number"
	DataTypeDate   DataType = "date"
	// DataTypeOther marks a blank type cell: the field is named by the
	// master but carries no type constraint.
	DataTypeOther DataType = "other"
)

// dataTypeAliases maps normalized rule-table spellings into the closed enum
var dataTypeAliases = map[string]DataType{
	"string":    DataTypeString,
	"text":      DataTypeString,
	"char":      DataTypeString,
	"varchar":   DataTypeString,
	"number":    DataTypeNumber,
	"numeric":   DataTypeNumber,
	"int":       DataTypeNumber,
	"integer":   DataTypeNumber,
	"float":     DataTypeNumber,
	"decimal":   DataTypeNumber,
	"date":      DataTypeDate,
	"datetime":  DataTypeDate,
	"timestamp": DataTypeDate,
}

// ParseDataType normalizes a raw data type cell into the closed enum.
// Blank means "no type constraint"; anything unrecognized is an error.
func ParseDataType(raw string) (DataType, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return DataTypeOther, nil
	}
	if dt, ok := dataTypeAliases[normalized]; ok {
		return dt, nil
	}
	return "", fmt.Errorf("unknown data type %q", raw)
}

// FieldSpec is one compiled rule: the constraints a single dataset column
// must satisfy.
type FieldSpec struct {
	FieldCode   string         `json:"field_code"`
	FieldName   string         `json:"field_name"`
	DataType    DataType       `json:"data_type"`
	Mandatory   bool           `json:"mandatory"`
	Pattern     *regexp.Regexp `json:"-"`
	PatternExpr string         `json:"pattern,omitempty"`
	Description string         `json:"description,omitempty"`
}

// HasPattern reports whether the field carries a regex constraint
func (f FieldSpec) HasPattern() bool {
	return f.Pattern != nil
}

// ValidationSpec maps field names to their compiled rules, preserving the
// rule table's field order. Immutable once compiled.
type ValidationSpec struct {
	fields map[string]FieldSpec
	order  []string
}

// Field returns the spec for a field name
func (s *ValidationSpec) Field(name string) (FieldSpec, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// FieldNames returns the expected field names in rule table order
func (s *ValidationSpec) FieldNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of compiled field rules
func (s *ValidationSpec) Len() int {
	return len(s.order)
}

// StateMaster is the set of valid state names supplied alongside the rule
// table. It is loaded and exposed as a set but not yet bound to any rule;
// allowed-values checks hang off this hook later.
type StateMaster struct {
	names map[string]bool
	order []string
}

// NewStateMaster builds the set from raw sheet values: trimmed, blanks
// dropped, first occurrence wins for ordering.
func NewStateMaster(raw []string) *StateMaster {
	m := &StateMaster{names: make(map[string]bool, len(raw))}
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || m.names[name] {
			continue
		}
		m.names[name] = true
		m.order = append(m.order, name)
	}
	return m
}

// Contains reports whether the trimmed name is a known state
func (m *StateMaster) Contains(name string) bool {
	return m.names[strings.TrimSpace(name)]
}

// Names returns the state names in load order
func (m *StateMaster) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct state names
func (m *StateMaster) Len() int {
	return len(m.order)
}
