package profile

import (
	"context"
	"math"

	"annexval/domain/table"
	"annexval/ports"

	"github.com/montanaflynn/stats"
	gonumstat "gonum.org/v1/gonum/stat"
)

// Profiler computes column summaries shown beside fix prompts, so the
// operator can judge what a coercion would do to the data.
type Profiler struct{}

// NewProfiler creates a column profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

var _ ports.Profiler = (*Profiler)(nil)

// ProfileColumn summarizes one column: missing/distinct counts, how many
// cells read as numbers or dates, and distribution statistics over the
// numeric cells.
func (p *Profiler) ProfileColumn(ctx context.Context, data *table.Table, field string) (*ports.ColumnProfile, error) {
	column, err := data.Column(field)
	if err != nil {
		return nil, err
	}

	profile := &ports.ColumnProfile{
		Field: field,
		Rows:  len(column),
	}

	distinct := make(map[string]bool)
	var numeric []float64
	for _, v := range column {
		if v.IsMissing {
			profile.Missing++
			continue
		}
		raw := v.StringForm()
		distinct[raw] = true

		if v.IsNumber() {
			numeric = append(numeric, v.AsFloat64())
			profile.NumericCells++
		} else if n, ok := table.ParseNumber(raw); ok {
			numeric = append(numeric, n)
			profile.NumericCells++
		}

		if v.IsDate() {
			profile.DateCells++
		} else if _, _, ok := table.ParseDateAny(raw); ok {
			profile.DateCells++
		}
	}
	profile.Distinct = len(distinct)
	if profile.Rows > 0 {
		profile.MissingRate = float64(profile.Missing) / float64(profile.Rows)
	}

	if len(numeric) > 0 {
		numStats, err := numericStats(numeric)
		if err != nil {
			return nil, err
		}
		profile.Numeric = numStats
	}

	return profile, nil
}

// ProfileTable profiles every column, in column order.
func (p *Profiler) ProfileTable(ctx context.Context, data *table.Table) ([]ports.ColumnProfile, error) {
	columns := data.Columns()
	profiles := make([]ports.ColumnProfile, 0, len(columns))
	for _, field := range columns {
		profile, err := p.ProfileColumn(ctx, data, field)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

func numericStats(data []float64) (*ports.NumericStats, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, err
	}
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return nil, err
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return nil, err
	}

	return &ports.NumericStats{
		Mean:     mean,
		Median:   median,
		Min:      min,
		Max:      max,
		StdDev:   stdDev,
		P25:      q25,
		P75:      q75,
		Skewness: finiteOrZero(gonumstat.Skew(data, nil)),
		Kurtosis: finiteOrZero(gonumstat.ExKurtosis(data, nil)),
	}, nil
}

// finiteOrZero guards the JSON encoder against NaN/Inf from shape
// statistics on tiny samples.
func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
