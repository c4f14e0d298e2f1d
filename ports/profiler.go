package ports

import (
	"context"

	"annexval/domain/table"
)

// Profiler analyzes columns to extract statistical profiles, shown next to
// fix prompts so the operator can judge a coercion's effect.
type Profiler interface {
	ProfileColumn(ctx context.Context, data *table.Table, field string) (*ColumnProfile, error)
	ProfileTable(ctx context.Context, data *table.Table) ([]ColumnProfile, error)
}

// ColumnProfile summarizes one column. Numeric statistics are only present
// when the column has at least one numeric value.
type ColumnProfile struct {
	Field        string        `json:"field"`
	Rows         int           `json:"rows"`
	Missing      int           `json:"missing"`
	MissingRate  float64       `json:"missing_rate"`
	Distinct     int           `json:"distinct"`
	NumericCells int           `json:"numeric_cells"`
	DateCells    int           `json:"date_cells"`
	Numeric      *NumericStats `json:"numeric,omitempty"`
}

// NumericStats holds distribution statistics for a column's numeric values.
type NumericStats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"std_dev"`
	P25      float64 `json:"p25"`
	P75      float64 `json:"p75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}
