package excel

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"annexval/domain/core"
	"annexval/domain/rules"
	"annexval/domain/table"
	apperrors "annexval/internal/errors"
	"annexval/ports"

	"github.com/xuri/excelize/v2"
)

// Reader loads the two workbooks a validation run needs: the validation
// master (rule rows plus state names) and the dataset to check.
type Reader struct{}

// NewReader creates a workbook reader.
func NewReader() *Reader {
	return &Reader{}
}

var (
	_ ports.RuleSource    = (*Reader)(nil)
	_ ports.DatasetSource = (*Reader)(nil)
)

// SheetNames lists the workbook's sheets so the caller can pick the rules
// and state-master sheets.
func (r *Reader) SheetNames(ctx context.Context, src io.Reader) ([]string, error) {
	f, err := openWorkbook(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// LoadRuleTable reads the rule rows from the named sheet (first sheet when
// empty). The header row must carry at least the six rule columns; wider
// rows are clipped to six, shorter data rows are padded with blanks.
func (r *Reader) LoadRuleTable(ctx context.Context, src io.Reader, sheet string) (rules.RuleTable, error) {
	startTime := time.Now()
	f, err := openWorkbook(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.SchemaErrorf("rules sheet %q must have a header row and at least one rule row", sheet)
	}
	if len(rows[0]) < rules.RuleColumns {
		return nil, apperrors.SchemaErrorf("rules sheet %q has %d columns, expected at least %d",
			sheet, len(rows[0]), rules.RuleColumns)
	}

	ruleTable := make(rules.RuleTable, 0, len(rows)-1)
	for _, row := range rows[1:] {
		clipped := make([]string, rules.RuleColumns)
		copy(clipped, row)
		ruleTable = append(ruleTable, clipped)
	}

	log.Printf("[ExcelReader] Rule sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(ruleTable))
	return ruleTable, nil
}

// LoadStateMaster reads column 0 of the named sheet as the set of valid
// state names. The header row is skipped; blanks are dropped.
func (r *Reader) LoadStateMaster(ctx context.Context, src io.Reader, sheet string) (*rules.StateMaster, error) {
	f, err := openWorkbook(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		names = append(names, row[0])
	}

	log.Printf("[ExcelReader] State master %q read (%d names)", sheet, len(names))
	return rules.NewStateMaster(names), nil
}

// LoadDataset reads the first sheet of the input workbook. Headers become
// column names verbatim (trimmed); every cell is ingested as a raw string
// value, with blanks marked missing.
func (r *Reader) LoadDataset(ctx context.Context, src io.Reader) (*table.Table, error) {
	startTime := time.Now()
	f, err := openWorkbook(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("dataset workbook: %w", core.ErrSheetNotFound)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset sheet %q: %w", sheet, core.ErrEmptyDataset)
	}

	data, err := table.FromStringRows(rows[0], rows[1:])
	if err != nil {
		return nil, apperrors.Wrap(err, "building dataset table")
	}

	log.Printf("[ExcelReader] Dataset sheet %q read in %.2fms (%d columns, %d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, data.NumColumns(), data.NumRows())
	return data, nil
}

// LoadRuleTableFile is a file-path convenience for the CLI.
func (r *Reader) LoadRuleTableFile(ctx context.Context, path, sheet string) (rules.RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rules workbook not found: %s", path)
	}
	defer f.Close()
	return r.LoadRuleTable(ctx, f, sheet)
}

// LoadStateMasterFile is a file-path convenience for the CLI.
func (r *Reader) LoadStateMasterFile(ctx context.Context, path, sheet string) (*rules.StateMaster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rules workbook not found: %s", path)
	}
	defer f.Close()
	return r.LoadStateMaster(ctx, f, sheet)
}

// LoadDatasetFile is a file-path convenience for the CLI.
func (r *Reader) LoadDatasetFile(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input workbook not found: %s", path)
	}
	defer f.Close()
	return r.LoadDataset(ctx, f)
}

func openWorkbook(src io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", core.ErrSheetNotFound
	}
	if sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == sheet {
			return sheet, nil
		}
	}
	return "", fmt.Errorf("sheet %q: %w", sheet, core.ErrSheetNotFound)
}
