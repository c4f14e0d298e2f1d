package ports

import (
	"context"
	"io"

	"annexval/domain/rules"
	"annexval/domain/table"
)

// RuleSource loads validation-master artifacts from an uploaded workbook.
// The caller selects which sheets hold the rules and the state names; an
// empty sheet name means the workbook's first sheet.
type RuleSource interface {
	// SheetNames lists the workbook's sheets for caller-side selection.
	SheetNames(ctx context.Context, r io.Reader) ([]string, error)

	// LoadRuleTable reads the 6-column rule rows from the named sheet.
	// Wider rows are clipped to the first six cells; narrower tables are
	// rejected before compilation.
	LoadRuleTable(ctx context.Context, r io.Reader, sheet string) (rules.RuleTable, error)

	// LoadStateMaster reads column 0 of the named sheet as the set of
	// valid state names.
	LoadStateMaster(ctx context.Context, r io.Reader, sheet string) (*rules.StateMaster, error)
}

// DatasetSource loads the dataset to validate from an uploaded workbook.
// The first sheet is authoritative; headers become column names verbatim.
type DatasetSource interface {
	LoadDataset(ctx context.Context, r io.Reader) (*table.Table, error)
}
