package testkit

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"annexval/domain/rules"
	"annexval/domain/table"
)

// Canonical fixtures for the annexure validation flow. Small and fully
// deterministic so tests can assert exact findings.

// RuleHeader is the header row of a rule sheet.
var RuleHeader = []string{"Field Code", "Field Name", "Data Type", "Validation", "Mandatory", "Description"}

// RuleRows returns the canonical rule table.
func RuleRows() rules.RuleTable {
	return rules.RuleTable{
		{"F01", "District Code", "string", "regex:[A-Z]{2}[0-9]{3}", "M", "Census district code"},
		{"F02", "District Name", "string", "", "M", "District display name"},
		{"F03", "State Name", "string", "lookup:states", "M", "Must match the state master"},
		{"F04", "Sanctioned Amount", "number", "", "O", "Sanctioned amount in INR"},
		{"F05", "Report Date", "date", "", "O", "Reporting period date"},
	}
}

// Spec compiles the canonical rule table.
func Spec() (*rules.ValidationSpec, error) {
	return rules.Compile(RuleRows())
}

// StateNames returns the canonical state master names.
func StateNames() []string {
	return []string{"Assam", "Bihar", "Goa", "Kerala", "Punjab"}
}

// States returns the canonical state master.
func States() *rules.StateMaster {
	return rules.NewStateMaster(StateNames())
}

// DatasetHeaders returns the canonical dataset column names.
func DatasetHeaders() []string {
	return []string{"District Code", "District Name", "State Name", "Sanctioned Amount", "Report Date"}
}

// DatasetRows carries one violation of each kind: a pattern violation on
// row 2, a missing mandatory name on row 2, a non-numeric amount on row 3
// and an ISO-formatted date on row 2.
func DatasetRows() [][]string {
	return [][]string{
		{"KL001", "Ernakulam", "Kerala", "125000.50", "15-03-2024"},
		{"kl002", "", "Kerala", "98000", "2024-03-16"},
		{"PB101", "Ludhiana", "Punjab", "pending", "17-03-2024"},
	}
}

// CleanDatasetRows returns rows that validate without findings.
func CleanDatasetRows() [][]string {
	return [][]string{
		{"KL001", "Ernakulam", "Kerala", "125000.50", "15-03-2024"},
		{"KL002", "Kollam", "Kerala", "98000", "16-03-2024"},
		{"PB101", "Ludhiana", "Punjab", "41200", "17-03-2024"},
	}
}

// Dataset builds the canonical dataset with its seeded violations.
func Dataset() (*table.Table, error) {
	return table.FromStringRows(DatasetHeaders(), DatasetRows())
}

// Sheet is one worksheet of a workbook fixture.
type Sheet struct {
	Name string
	Rows [][]string
}

// BuildWorkbook serializes ordered sheets into xlsx bytes.
func BuildWorkbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, err
			}
		}
		for r, row := range sheet.Rows {
			for c, cell := range row {
				name, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet.Name, name, cell); err != nil {
					return nil, err
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RulesWorkbook builds an xlsx with the canonical rule sheet and state
// master sheet, shaped the way the loaders expect them.
func RulesWorkbook() ([]byte, error) {
	ruleRows := [][]string{RuleHeader}
	for _, row := range RuleRows() {
		ruleRows = append(ruleRows, row)
	}

	stateRows := [][]string{{"State Name"}}
	for _, name := range StateNames() {
		stateRows = append(stateRows, []string{name})
	}

	return BuildWorkbook([]Sheet{
		{Name: "Rules", Rows: ruleRows},
		{Name: "States", Rows: stateRows},
	})
}

// DatasetWorkbook builds an xlsx holding the canonical dataset.
func DatasetWorkbook() ([]byte, error) {
	rows := [][]string{DatasetHeaders()}
	rows = append(rows, DatasetRows()...)
	return BuildWorkbook([]Sheet{{Name: "Data", Rows: rows}})
}
