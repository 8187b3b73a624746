package charts

import (
	"math"
	"testing"
	"time"

	"github.com/SanteonNL/clinicalops/internal/generator"
	"github.com/SanteonNL/clinicalops/models/trial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) trial.Date {
	return trial.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestSeverityCounts(t *testing.T) {
	records := []trial.PatientRecord{
		{Severity: trial.SeveritySevere},
		{Severity: trial.SeverityNone},
		{Severity: trial.SeverityNone},
		{Severity: trial.SeverityModerate},
	}
	assert.Equal(t, []int{2, 0, 1, 1}, SeverityCounts(records))
	assert.Equal(t, []int{0, 0, 0, 0}, SeverityCounts(nil))
}

func TestCumulativeMonthly(t *testing.T) {
	records := []trial.PatientRecord{
		{EnrollmentDate: day(2024, time.March, 20)},
		{EnrollmentDate: day(2024, time.January, 3)},
		{EnrollmentDate: day(2024, time.January, 31)},
		{EnrollmentDate: day(2024, time.March, 1)},
	}

	series := CumulativeMonthly(records)
	require.Len(t, series, 3)

	assert.Equal(t, "2024-01-31", series[0].MonthEnd.Format("2006-01-02"))
	assert.Equal(t, 2, series[0].Total)
	assert.Equal(t, "2024-02-29", series[1].MonthEnd.Format("2006-01-02"))
	assert.Equal(t, 2, series[1].Total, "empty month carries the running total")
	assert.Equal(t, "2024-03-31", series[2].MonthEnd.Format("2006-01-02"))
	assert.Equal(t, 4, series[2].Total)

	assert.Nil(t, CumulativeMonthly(nil))
}

func TestCumulativeMonthly_GeneratedEndsAtRecordCount(t *testing.T) {
	records := generator.Generate(generator.DefaultConfig())
	series := CumulativeMonthly(records)
	require.NotEmpty(t, series)
	assert.Equal(t, len(records), series[len(series)-1].Total)
	for i := 1; i < len(series); i++ {
		assert.GreaterOrEqual(t, series[i].Total, series[i-1].Total)
	}
}

func TestLinearTrend(t *testing.T) {
	var records []trial.PatientRecord
	for age := 20; age <= 80; age += 10 {
		records = append(records, trial.PatientRecord{Age: age, SystolicBP: 100 + age/2})
	}
	slope, intercept, err := LinearTrend(records)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, slope, 1e-9)
	assert.InDelta(t, 100, intercept, 1e-9)

	_, _, err = LinearTrend([]trial.PatientRecord{{Age: 30, SystolicBP: 120}, {Age: 30, SystolicBP: 125}})
	assert.ErrorIs(t, err, ErrTooFewPoints)
	_, _, err = LinearTrend(nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestLinearTrend_RecoversGeneratorModel(t *testing.T) {
	cfg := generator.DefaultConfig()
	cfg.Count = 5000
	slope, intercept, err := LinearTrend(generator.Generate(cfg))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, slope, 0.05)
	assert.InDelta(t, 109.5, intercept, 3)
}

func TestBinEdges(t *testing.T) {
	assert.Nil(t, BinEdges(nil))
	assert.Equal(t, []float64{4.5, 5.5}, BinEdges([]float64{5, 5, 5}))

	values := make([]float64, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, float64(i))
	}
	edges := BinEdges(values)
	// Sturges: log2(100)+1 = 7.64 -> width 12.95; FD: 2*49.5/4.64 = 21.3.
	// The smaller width wins, giving 8 bins.
	require.Len(t, edges, 9)
	assert.Equal(t, 0.0, edges[0])
	assert.Equal(t, 99.0, edges[len(edges)-1])
	for i := 1; i < len(edges); i++ {
		assert.InDelta(t, 99.0/8, edges[i]-edges[i-1], 1e-9)
	}
}

func TestStackedAgeHistogram(t *testing.T) {
	records := generator.Generate(generator.DefaultConfig())
	h := StackedAgeHistogram(records)
	require.GreaterOrEqual(t, len(h.Edges), 2)

	counted := 0
	for _, g := range trial.Genders() {
		require.Len(t, h.Counts[g], len(h.Edges)-1)
		counted += total(h.Counts[g])
	}
	assert.Equal(t, len(records), counted, "every age lands in exactly one bin")
}

func TestAgeHistogram_LastBinClosed(t *testing.T) {
	h := AgeHistogram{Edges: []float64{0, 10, 20}}
	assert.Equal(t, 0, h.binOf(0))
	assert.Equal(t, 0, h.binOf(9.99))
	assert.Equal(t, 1, h.binOf(10))
	assert.Equal(t, 1, h.binOf(20))
	assert.Equal(t, -1, h.binOf(20.5))
	assert.Equal(t, -1, h.binOf(-1))
}

func TestGaussianKDE(t *testing.T) {
	values := []float64{40, 42, 45, 50, 51, 55, 60}
	grid := linspace(0, 100, 1001)
	density := GaussianKDE(values, grid)

	// integrates to ~1 over a range far wider than the data
	var area float64
	for i := 1; i < len(grid); i++ {
		area += (density[i] + density[i-1]) / 2 * (grid[i] - grid[i-1])
	}
	assert.InDelta(t, 1.0, area, 0.01)

	for _, d := range GaussianKDE([]float64{3}, grid) {
		assert.Zero(t, d)
	}
	for _, d := range density {
		assert.False(t, math.IsNaN(d))
	}
}
