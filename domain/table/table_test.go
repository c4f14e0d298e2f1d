package table

import (
	"testing"
	"time"
)

func TestFromStringRows(t *testing.T) {
	tbl, err := FromStringRows(
		[]string{"Region", "Amount"},
		[][]string{
			{"North", "12"},
			{"", "7"},
			{"South"}, // short row padded with missing
		},
	)
	if err != nil {
		t.Fatalf("FromStringRows failed: %v", err)
	}

	if tbl.NumRows() != 3 {
		t.Errorf("Expected 3 rows, got %d", tbl.NumRows())
	}
	if tbl.NumColumns() != 2 {
		t.Errorf("Expected 2 columns, got %d", tbl.NumColumns())
	}

	region, err := tbl.Column("Region")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	if region[0].StringForm() != "North" {
		t.Errorf("Expected North, got %q", region[0].StringForm())
	}
	if !region[1].IsMissing {
		t.Error("Expected blank cell to be missing")
	}

	amount, _ := tbl.Column("Amount")
	if !amount[2].IsMissing {
		t.Error("Expected padded cell to be missing")
	}

	missing, _ := tbl.MissingCount("Region")
	if missing != 1 {
		t.Errorf("Expected 1 missing Region cell, got %d", missing)
	}
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	if _, err := New([]string{"A", "B", "A"}); err == nil {
		t.Error("Expected duplicate column name to be rejected")
	}
	if _, err := New([]string{"A", "  "}); err == nil {
		t.Error("Expected blank column name to be rejected")
	}
}

func TestSetColumnAtomicity(t *testing.T) {
	tbl, _ := FromStringRows([]string{"Amount"}, [][]string{{"12"}, {"x"}, {"7"}})

	// Wrong length leaves the table untouched.
	if err := tbl.SetColumn("Amount", []Value{NewNumberValue(1)}); err == nil {
		t.Fatal("Expected length mismatch to fail")
	}
	col, _ := tbl.Column("Amount")
	if col[0].StringForm() != "12" {
		t.Errorf("Table mutated by failed SetColumn: %v", col[0])
	}

	// Unknown column fails.
	if err := tbl.SetColumn("Nope", make([]Value, 3)); err == nil {
		t.Fatal("Expected unknown column to fail")
	}

	// Valid replacement swaps the whole column.
	replacement := []Value{NewNumberValue(12), NewMissingValue(), NewNumberValue(7)}
	if err := tbl.SetColumn("Amount", replacement); err != nil {
		t.Fatalf("SetColumn failed: %v", err)
	}
	col, _ = tbl.Column("Amount")
	if !col[0].IsNumber() || col[0].AsFloat64() != 12 {
		t.Errorf("Expected numeric 12, got %v", col[0])
	}
	if !col[1].IsMissing {
		t.Error("Expected missing marker to survive replacement")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl, _ := FromStringRows([]string{"A"}, [][]string{{"one"}, {"two"}})
	clone := tbl.Clone()

	if err := clone.SetColumn("A", []Value{NewStringValue("changed"), NewMissingValue()}); err != nil {
		t.Fatalf("SetColumn on clone failed: %v", err)
	}

	orig, _ := tbl.Column("A")
	if orig[0].StringForm() != "one" || orig[1].StringForm() != "two" {
		t.Error("Mutating the clone leaked into the original")
	}
}

func TestValueForms(t *testing.T) {
	if NewStringValue("  ").Type != TypeMissing {
		t.Error("Blank string should become a missing value")
	}

	n := NewNumberValue(12)
	if n.StringForm() != "12" {
		t.Errorf("Expected 12, got %q", n.StringForm())
	}
	frac := NewNumberValue(7.5)
	if frac.StringForm() != "7.5" {
		t.Errorf("Expected 7.5, got %q", frac.StringForm())
	}

	d := NewDateValue(time.Date(2024, time.January, 31, 18, 30, 0, 0, time.UTC), "02-01-2006 15:04")
	if d.StringForm() != "31-01-2024 18:30" {
		t.Errorf("Expected formatted datetime, got %q", d.StringForm())
	}

	m := NewMissingValue()
	if m.String() != "<missing>" {
		t.Errorf("Expected <missing>, got %q", m.String())
	}
	if m.Export() != nil {
		t.Errorf("Expected nil export for missing, got %v", m.Export())
	}
	if n.Export() != 12.0 {
		t.Errorf("Expected numeric export, got %v", n.Export())
	}
}
