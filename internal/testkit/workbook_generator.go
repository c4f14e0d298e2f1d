package testkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"annexval/domain/rules"
)

// WorkbookGeneratorConfig configures the synthetic annexure generator.
// Violation intervals are row strides: every Nth row gets that violation
// seeded; zero disables it.
type WorkbookGeneratorConfig struct {
	Rows             int       `json:"rows"`
	Seed             int64     `json:"seed"`
	MissingNameEvery int       `json:"missing_name_every"`
	BadCodeEvery     int       `json:"bad_code_every"`
	BadAmountEvery   int       `json:"bad_amount_every"`
	IsoDateEvery     int       `json:"iso_date_every"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
}

// DefaultWorkbookConfig returns sensible defaults for demo data generation
func DefaultWorkbookConfig() WorkbookGeneratorConfig {
	return WorkbookGeneratorConfig{
		Rows:             50,
		Seed:             42,
		MissingNameEvery: 9,
		BadCodeEvery:     11,
		BadAmountEvery:   13,
		IsoDateEvery:     5,
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
}

// WorkbookGenerator produces synthetic annexure workbooks with seeded
// violations for demos and manual testing.
type WorkbookGenerator struct {
	config WorkbookGeneratorConfig
	faker  *gofakeit.Faker
}

// NewWorkbookGenerator creates a generator with a deterministic faker.
func NewWorkbookGenerator(config WorkbookGeneratorConfig) *WorkbookGenerator {
	if config.Rows <= 0 {
		config.Rows = DefaultWorkbookConfig().Rows
	}
	return &WorkbookGenerator{
		config: config,
		faker:  gofakeit.New(config.Seed),
	}
}

// RuleTable returns the rule rows the generated dataset is validated
// against.
func (g *WorkbookGenerator) RuleTable() rules.RuleTable {
	return RuleRows()
}

// StateNames returns the generated state master names.
func (g *WorkbookGenerator) StateNames() []string {
	return StateNames()
}

// DatasetRows generates header and data rows with violations seeded at the
// configured strides.
func (g *WorkbookGenerator) DatasetRows() ([]string, [][]string) {
	headers := DatasetHeaders()
	states := g.StateNames()

	rows := make([][]string, 0, g.config.Rows)
	for i := 0; i < g.config.Rows; i++ {
		state := states[g.faker.Number(0, len(states)-1)]
		code := fmt.Sprintf("%s%03d", strings.ToUpper(state[:2]), g.faker.Number(1, 999))
		name := g.faker.City()
		amount := fmt.Sprintf("%.2f", g.faker.Price(10000, 900000))
		when := g.faker.DateRange(g.config.StartDate, g.config.EndDate)

		date := when.Format("02-01-2006")
		if g.seeded(i, g.config.BadCodeEvery) {
			code = strings.ToLower(code)
		}
		if g.seeded(i, g.config.MissingNameEvery) {
			name = ""
		}
		if g.seeded(i, g.config.BadAmountEvery) {
			amount = "pending"
		}
		if g.seeded(i, g.config.IsoDateEvery) {
			date = when.Format("2006-01-02")
		}

		rows = append(rows, []string{code, name, state, amount, date})
	}
	return headers, rows
}

// RulesWorkbook serializes the rule table and state master sheets.
func (g *WorkbookGenerator) RulesWorkbook() ([]byte, error) {
	ruleRows := [][]string{RuleHeader}
	for _, row := range g.RuleTable() {
		ruleRows = append(ruleRows, row)
	}

	stateRows := [][]string{{"State Name"}}
	for _, name := range g.StateNames() {
		stateRows = append(stateRows, []string{name})
	}

	return BuildWorkbook([]Sheet{
		{Name: "Rules", Rows: ruleRows},
		{Name: "States", Rows: stateRows},
	})
}

// DatasetWorkbook serializes the generated dataset sheet.
func (g *WorkbookGenerator) DatasetWorkbook() ([]byte, error) {
	headers, dataRows := g.DatasetRows()
	rows := [][]string{headers}
	rows = append(rows, dataRows...)
	return BuildWorkbook([]Sheet{{Name: "Data", Rows: rows}})
}

func (g *WorkbookGenerator) seeded(row, every int) bool {
	if every <= 0 {
		return false
	}
	return (row+1)%every == 0
}
