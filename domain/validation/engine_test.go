package validation

import (
	"encoding/json"
	"testing"

	"annexval/domain/coercion"
	"annexval/domain/rules"
	"annexval/domain/table"
)

func compileRules(t *testing.T, rows ...[]string) *rules.ValidationSpec {
	t.Helper()
	spec, err := rules.Compile(rules.RuleTable(rows))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return spec
}

func buildDataset(t *testing.T, headers []string, rows [][]string) *table.Table {
	t.Helper()
	data, err := table.FromStringRows(headers, rows)
	if err != nil {
		t.Fatalf("FromStringRows failed: %v", err)
	}
	return data
}

func TestValidateCleanDataset(t *testing.T) {
	spec := compileRules(t,
		[]string{"F01", "Region", "string", "", "M", ""},
		[]string{"F02", "Amount", "number", "", "", ""},
	)
	data := buildDataset(t, []string{"Region", "Amount"}, [][]string{
		{"North", "12.5"},
		{"South", "7"},
	})

	report := NewEngine().Validate(spec, data)
	if !report.Clean() {
		t.Errorf("Expected clean report, got %+v", report)
	}
}

func TestValidateMandatoryViolation(t *testing.T) {
	spec := compileRules(t, []string{"F01", "Region", "string", "", "M", ""})
	data := buildDataset(t, []string{"Region"}, [][]string{
		{"North"},
		{""},
		{"South"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.NonFixable) != 1 || len(report.Fixable) != 0 {
		t.Fatalf("Expected exactly one non-fixable finding, got %+v", report)
	}

	f := report.NonFixable[0]
	if f.Field != "Region" || f.Kind != KindMandatoryViolation || f.Fixable {
		t.Errorf("Unexpected finding: %+v", f)
	}
}

func TestValidateMissingColumnsFirst(t *testing.T) {
	spec := compileRules(t,
		[]string{"F01", "Region", "string", "", "M", ""},
		[]string{"F02", "Amount", "number", "", "", ""},
		[]string{"F03", "Code", "string", `regex:^[A-Z]+$`, "", ""},
	)
	data := buildDataset(t, []string{"Region", "Code"}, [][]string{
		{"", "lower"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.NonFixable) != 3 {
		t.Fatalf("Expected 3 non-fixable findings, got %+v", report.NonFixable)
	}

	// Missing column first, then rule-order findings.
	if report.NonFixable[0].Kind != KindMissingColumn || report.NonFixable[0].Field != "Amount" {
		t.Errorf("Expected Amount missing_column first, got %+v", report.NonFixable[0])
	}
	if report.NonFixable[1].Kind != KindMandatoryViolation || report.NonFixable[1].Field != "Region" {
		t.Errorf("Expected Region mandatory_violation second, got %+v", report.NonFixable[1])
	}
	if report.NonFixable[2].Kind != KindPatternViolation || report.NonFixable[2].Field != "Code" {
		t.Errorf("Expected Code pattern_violation third, got %+v", report.NonFixable[2])
	}
}

func TestValidateNumberTypeViolationNotFixable(t *testing.T) {
	spec := compileRules(t, []string{"F02", "Amount", "number", "", "", ""})
	data := buildDataset(t, []string{"Amount"}, [][]string{
		{"12"},
		{"x"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.NonFixable) != 1 {
		t.Fatalf("Expected one non-fixable finding, got %+v", report)
	}
	f := report.NonFixable[0]
	if f.Kind != KindTypeViolation || f.Fixable {
		t.Errorf("Number violation should be non-fixable type_violation, got %+v", f)
	}
}

func TestValidateDateRuleViolationIsFixable(t *testing.T) {
	spec := compileRules(t, []string{"F03", "Booked", "date", "", "", ""})
	data := buildDataset(t, []string{"Booked"}, [][]string{
		{"yesterday"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.Fixable) != 1 || len(report.NonFixable) != 0 {
		t.Fatalf("Expected one fixable finding, got %+v", report)
	}

	f := report.Fixable[0]
	if f.Kind != KindTypeViolation || !f.Fixable {
		t.Errorf("Date violation should be fixable type_violation, got %+v", f)
	}
	if f.SuggestedType != coercion.TargetDate || f.SuggestedFormat != rules.TokenDate {
		t.Errorf("Expected date/%s suggestion, got %+v", rules.TokenDate, f)
	}
}

func TestValidatePatternViolation(t *testing.T) {
	spec := compileRules(t, []string{"F04", "Code", "string", `regex:^[A-Z]{2}\d{4}$`, "", ""})
	data := buildDataset(t, []string{"Code"}, [][]string{
		{"ab123"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.NonFixable) != 1 || len(report.Fixable) != 0 {
		t.Fatalf("Expected one non-fixable finding, got %+v", report)
	}
	f := report.NonFixable[0]
	if f.Field != "Code" || f.Kind != KindPatternViolation || f.Fixable {
		t.Errorf("Unexpected finding: %+v", f)
	}
}

func TestValidateHeaderFormatInference(t *testing.T) {
	// EventDate has no rule at all; the header check still fires.
	spec := compileRules(t, []string{"F01", "Region", "string", "", "", ""})
	data := buildDataset(t, []string{"Region", "EventDate"}, [][]string{
		{"North", "31-02-2024"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.Fixable) != 1 {
		t.Fatalf("Expected one fixable finding, got %+v", report)
	}

	f := report.Fixable[0]
	if f.Field != "EventDate" || f.Kind != KindFormatViolation {
		t.Errorf("Unexpected finding: %+v", f)
	}
	if f.SuggestedType != coercion.TargetDate || f.SuggestedFormat != rules.TokenDate {
		t.Errorf("Expected date/%s suggestion, got %+v", rules.TokenDate, f)
	}
}

func TestValidateTimeHeaderWantsDatetimeFormat(t *testing.T) {
	spec := compileRules(t, []string{"F01", "Region", "string", "", "", ""})
	data := buildDataset(t, []string{"Region", "StartTime"}, [][]string{
		{"North", "15-03-2024"},
	})

	report := NewEngine().Validate(spec, data)
	f, ok := report.FixableFor("StartTime")
	if !ok {
		t.Fatalf("Expected fixable finding for StartTime, got %+v", report)
	}
	if f.SuggestedFormat != rules.TokenDateTime {
		t.Errorf("Expected format %s, got %s", rules.TokenDateTime, f.SuggestedFormat)
	}

	// A value in the exact datetime format passes.
	ok1 := buildDataset(t, []string{"StartTime"}, [][]string{{"15-03-2024 09:30"}})
	if report := NewEngine().Validate(spec, ok1); !report.Clean() {
		t.Errorf("Exact-format column should pass, got %+v", report)
	}
}

func TestValidateFixableDedupFormatWins(t *testing.T) {
	// EventDate carries a date rule and a date-like name; both checks fail.
	// The operator must see exactly one fixable entry, the format one.
	spec := compileRules(t, []string{"F05", "EventDate", "date", "", "", ""})
	data := buildDataset(t, []string{"EventDate"}, [][]string{
		{"not-a-date"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.Fixable) != 1 {
		t.Fatalf("Expected one deduplicated fixable finding, got %+v", report.Fixable)
	}
	f := report.Fixable[0]
	if f.Kind != KindFormatViolation || f.SuggestedFormat != rules.TokenDate {
		t.Errorf("Format finding should win the dedup, got %+v", f)
	}
}

func TestValidateConflictingRuleAndHeaderCoexist(t *testing.T) {
	// Master rule says number, header says date. Both findings surface
	// independently rather than merging.
	spec := compileRules(t, []string{"F06", "AmountDate", "number", "", "", ""})
	data := buildDataset(t, []string{"AmountDate"}, [][]string{
		{"abc"},
	})

	report := NewEngine().Validate(spec, data)
	if len(report.NonFixable) != 1 || report.NonFixable[0].Kind != KindTypeViolation {
		t.Errorf("Expected non-fixable number violation, got %+v", report.NonFixable)
	}
	if len(report.Fixable) != 1 || report.Fixable[0].Kind != KindFormatViolation {
		t.Errorf("Expected fixable format violation, got %+v", report.Fixable)
	}
}

func TestValidateSkipsMissingCells(t *testing.T) {
	spec := compileRules(t, []string{"F02", "Amount", "number", "", "", ""})
	data := buildDataset(t, []string{"Amount"}, [][]string{
		{"12"},
		{""},
	})

	report := NewEngine().Validate(spec, data)
	if !report.Clean() {
		t.Errorf("Missing cells must not fail the type check, got %+v", report)
	}
}

func TestValidateIdempotent(t *testing.T) {
	spec := compileRules(t,
		[]string{"F01", "Region", "string", "", "M", ""},
		[]string{"F02", "Amount", "number", "", "", ""},
		[]string{"F05", "EventDate", "date", "", "", ""},
	)
	data := buildDataset(t, []string{"Region", "Amount", "EventDate"}, [][]string{
		{"", "x", "bad"},
	})

	engine := NewEngine()
	first, err := json.Marshal(engine.Validate(spec, data))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := json.Marshal(engine.Validate(spec, data))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Reports differ across runs:\n%s\n%s", first, second)
	}
}

func TestValidateAfterNumberCoercion(t *testing.T) {
	spec := compileRules(t, []string{"F02", "Amount", "number", "", "", ""})
	data := buildDataset(t, []string{"Amount"}, [][]string{
		{"12"},
		{"x"},
		{"7"},
	})

	engine := NewEngine()
	if report := engine.Validate(spec, data); len(report.NonFixable) != 1 {
		t.Fatalf("Expected a type violation before the fix, got %+v", report)
	}

	result, err := coercion.NewApplier().Apply(data, coercion.Request{
		Field:  "Amount",
		Target: coercion.TargetNumber,
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Unparseable != 1 {
		t.Errorf("Expected 1 unparseable cell, got %d", result.Unparseable)
	}

	column, err := data.Column("Amount")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if !column[0].IsNumber() || column[0].AsFloat64() != 12 {
		t.Errorf("Expected 12, got %+v", column[0])
	}
	if !column[1].IsMissing {
		t.Errorf("Unparseable cell should become missing, got %+v", column[1])
	}
	if !column[2].IsNumber() || column[2].AsFloat64() != 7 {
		t.Errorf("Expected 7, got %+v", column[2])
	}

	if report := engine.Validate(spec, data); !report.Clean() {
		t.Errorf("Expected clean report after coercion, got %+v", report)
	}
}

func TestReportAccessors(t *testing.T) {
	report := &Report{
		NonFixable: []Finding{{Field: "A", Kind: KindMandatoryViolation, Message: "a"}},
		Fixable:    []Finding{{Field: "B", Kind: KindFormatViolation, Message: "b", Fixable: true}},
	}

	if report.Clean() || report.Len() != 2 {
		t.Errorf("Unexpected report counts: clean=%v len=%d", report.Clean(), report.Len())
	}
	if _, ok := report.FixableFor("B"); !ok {
		t.Error("FixableFor(B) should find the finding")
	}
	if _, ok := report.FixableFor("A"); ok {
		t.Error("FixableFor(A) should find nothing")
	}
	if fields := report.FixableFields(); len(fields) != 1 || fields[0] != "B" {
		t.Errorf("Unexpected fixable fields: %v", fields)
	}
	if msgs := report.NonFixableMessages(); len(msgs) != 1 || msgs[0] != "a" {
		t.Errorf("Unexpected messages: %v", msgs)
	}
}
