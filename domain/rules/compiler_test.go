package rules

import (
	"testing"

	"annexval/internal/errors"
)

func row(code, name, dtype, validation, mandatory, desc string) []string {
	return []string{code, name, dtype, validation, mandatory, desc}
}

func TestCompileBasicRuleTable(t *testing.T) {
	table := RuleTable{
		row("F01", "Region", "string", "", "M", "reporting region"),
		row("F02", "Amount", "number", "", "O", ""),
		row("F03", "EventDate", "date", "", "", ""),
		row("F04", "Remarks", "", "", "", "free text"),
	}

	spec, err := Compile(table)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if spec.Len() != 4 {
		t.Fatalf("Expected 4 fields, got %d", spec.Len())
	}

	region, ok := spec.Field("Region")
	if !ok {
		t.Fatal("Region rule missing")
	}
	if !region.Mandatory {
		t.Error("Expected Region to be mandatory")
	}
	if region.DataType != DataTypeString {
		t.Errorf("Expected string type, got %s", region.DataType)
	}

	amount, _ := spec.Field("Amount")
	if amount.Mandatory {
		t.Error("Flag O must not be mandatory")
	}
	if amount.DataType != DataTypeNumber {
		t.Errorf("Expected number type, got %s", amount.DataType)
	}

	remarks, _ := spec.Field("Remarks")
	if remarks.DataType != DataTypeOther {
		t.Errorf("Blank type cell should compile to other, got %s", remarks.DataType)
	}

	order := spec.FieldNames()
	expected := []string{"Region", "Amount", "EventDate", "Remarks"}
	for i, name := range expected {
		if order[i] != name {
			t.Errorf("Field order[%d] = %s, expected %s", i, order[i], name)
		}
	}
}

func TestCompileRejectsWrongColumnCount(t *testing.T) {
	narrow := RuleTable{{"F01", "Region", "string", "", "M"}}
	if _, err := Compile(narrow); err == nil || !errors.IsSchemaError(err) {
		t.Errorf("Expected SCHEMA_ERROR for 5-column row, got %v", err)
	}

	wide := RuleTable{{"F01", "Region", "string", "", "M", "", "extra"}}
	if _, err := Compile(wide); err == nil || !errors.IsSchemaError(err) {
		t.Errorf("Expected SCHEMA_ERROR for 7-column row, got %v", err)
	}
}

func TestCompileMandatoryFlag(t *testing.T) {
	tests := []struct {
		flag      string
		mandatory bool
	}{
		{"M", true},
		{"m", true},
		{" M ", true},
		{"O", false},
		{"Mandatory", false},
		{"", false},
		{"X", false},
	}

	for _, tt := range tests {
		spec, err := Compile(RuleTable{row("F01", "Region", "string", "", tt.flag, "")})
		if err != nil {
			t.Fatalf("Compile failed for flag %q: %v", tt.flag, err)
		}
		field, _ := spec.Field("Region")
		if field.Mandatory != tt.mandatory {
			t.Errorf("Flag %q: mandatory = %v, expected %v", tt.flag, field.Mandatory, tt.mandatory)
		}
	}
}

func TestCompilePatternExpression(t *testing.T) {
	spec, err := Compile(RuleTable{
		row("F01", "Code", "string", `regex:^[A-Z]{2}\d{4}$`, "", ""),
		row("F02", "State", "string", `REGEX: [A-Z ]+ `, "", "prefix is case-insensitive, pattern trimmed"),
		row("F03", "Remarks", "string", "lookup:states", "", "non-regex expressions carry no constraint"),
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	code, _ := spec.Field("Code")
	if !code.HasPattern() {
		t.Fatal("Expected compiled pattern for Code")
	}
	if !code.Pattern.MatchString("AB1234") {
		t.Error("Pattern should match AB1234")
	}
	if code.Pattern.MatchString("ab123") {
		t.Error("Pattern must not match ab123")
	}
	// The match must cover the full value, not a substring.
	if code.Pattern.MatchString("xAB1234y") {
		t.Error("Pattern must be anchored to the whole value")
	}

	state, _ := spec.Field("State")
	if !state.HasPattern() {
		t.Fatal("Uppercase prefix should still compile a pattern")
	}
	if state.PatternExpr != "[A-Z ]+" {
		t.Errorf("Pattern text should be trimmed, got %q", state.PatternExpr)
	}

	remarks, _ := spec.Field("Remarks")
	if remarks.HasPattern() {
		t.Error("Non-regex expression must not produce a pattern")
	}
}

func TestCompileRejectsBadRows(t *testing.T) {
	tests := []struct {
		name  string
		table RuleTable
	}{
		{"invalid regex", RuleTable{row("F01", "Code", "string", "regex:([", "", "")}},
		{"empty pattern", RuleTable{row("F01", "Code", "string", "regex:", "", "")}},
		{"unknown data type", RuleTable{row("F01", "Region", "blob", "", "", "")}},
		{"blank field name", RuleTable{row("F01", "  ", "string", "", "", "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.table); err == nil || !errors.IsSchemaError(err) {
				t.Errorf("Expected SCHEMA_ERROR, got %v", err)
			}
		})
	}
}

func TestCompileDuplicateFieldLastWins(t *testing.T) {
	spec, err := Compile(RuleTable{
		row("F01", "Region", "string", "", "", ""),
		row("F02", "Amount", "number", "", "", ""),
		row("F09", "Region", "string", "", "M", "revised"),
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if spec.Len() != 2 {
		t.Fatalf("Expected 2 distinct fields, got %d", spec.Len())
	}

	region, _ := spec.Field("Region")
	if !region.Mandatory || region.FieldCode != "F09" {
		t.Errorf("Expected the later Region row to win, got %+v", region)
	}

	// The duplicate keeps its first position.
	order := spec.FieldNames()
	if order[0] != "Region" || order[1] != "Amount" {
		t.Errorf("Unexpected field order: %v", order)
	}
}

func TestCompileSkipsBlankRows(t *testing.T) {
	spec, err := Compile(RuleTable{
		row("F01", "Region", "string", "", "", ""),
		{"", "", "", "", "", ""},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if spec.Len() != 1 {
		t.Errorf("Blank row should be skipped, got %d fields", spec.Len())
	}
}
