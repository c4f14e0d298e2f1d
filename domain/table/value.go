package table

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayout renders date cells that carry no explicit layout.
const DefaultDateLayout = "02-01-2006"

// ValueType defines the storage type for cell values
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeDate    ValueType = "date"
	TypeMissing ValueType = "missing"
)

// Value represents one dataset cell: a typed raw value with an explicit
// missing marker. Unparseable cells never become errors at this level;
// they become missing values.
type Value struct {
	Type       ValueType  `json:"type"`
	StringVal  *string    `json:"string_val,omitempty"`
	NumberVal  *float64   `json:"number_val,omitempty"`
	DateVal    *time.Time `json:"date_val,omitempty"`
	DateLayout string     `json:"date_layout,omitempty"`
	IsMissing  bool       `json:"is_missing"`
}

// NewStringValue creates a string value. Blank input becomes a missing value.
func NewStringValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return NewMissingValue()
	}
	return Value{Type: TypeString, StringVal: &s}
}

// NewNumberValue creates a numeric value
func NewNumberValue(n float64) Value {
	return Value{Type: TypeNumber, NumberVal: &n}
}

// NewDateValue creates a date value rendered with the given Go layout
func NewDateValue(t time.Time, layout string) Value {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return Value{Type: TypeDate, DateVal: &t, DateLayout: layout}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: TypeMissing, IsMissing: true}
}

// StringForm returns the operator-facing string rendering of the value.
// Missing values render as the empty string.
func (v Value) StringForm() string {
	switch v.Type {
	case TypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case TypeNumber:
		if v.NumberVal != nil {
			return strconv.FormatFloat(*v.NumberVal, 'f', -1, 64)
		}
	case TypeDate:
		if v.DateVal != nil {
			layout := v.DateLayout
			if layout == "" {
				layout = DefaultDateLayout
			}
			return v.DateVal.Format(layout)
		}
	}
	return ""
}

// String returns a debug representation; missing cells are made explicit
func (v Value) String() string {
	if v.IsMissing {
		return "<missing>"
	}
	return v.StringForm()
}

// Export returns the value in the shape a spreadsheet writer expects:
// nil for missing, float64 for numbers, formatted string otherwise.
func (v Value) Export() interface{} {
	switch v.Type {
	case TypeNumber:
		if v.NumberVal != nil {
			return *v.NumberVal
		}
	case TypeString, TypeDate:
		return v.StringForm()
	}
	return nil
}

// IsNumber returns true if the value holds a valid number
func (v Value) IsNumber() bool {
	return v.Type == TypeNumber && v.NumberVal != nil
}

// IsDate returns true if the value holds a valid date
func (v Value) IsDate() bool {
	return v.Type == TypeDate && v.DateVal != nil
}

// AsFloat64 returns the numeric value, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumberVal != nil {
		return *v.NumberVal
	}
	return 0.0
}
