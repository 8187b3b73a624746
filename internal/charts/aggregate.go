package charts

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/SanteonNL/clinicalops/models/trial"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeverityCounts returns the number of patients per severity, indexed in
// trial.Severities() order.
func SeverityCounts(records []trial.PatientRecord) []int {
	levels := trial.Severities()
	counts := make([]int, len(levels))
	for _, r := range records {
		if r.Severity >= levels[0] && r.Severity <= levels[len(levels)-1] {
			counts[r.Severity]++
		}
	}
	return counts
}

// MonthlyTotal is the running enrollment count at the end of a month.
type MonthlyTotal struct {
	MonthEnd time.Time
	Total    int
}

// CumulativeMonthly buckets enrollments by calendar month from the first to
// the last enrollment month. Months without enrollments repeat the running
// total so the series has no gaps.
func CumulativeMonthly(records []trial.PatientRecord) []MonthlyTotal {
	if len(records) == 0 {
		return nil
	}

	perMonth := make(map[time.Time]int)
	first, last := monthStart(records[0].EnrollmentDate.Time), monthStart(records[0].EnrollmentDate.Time)
	for _, r := range records {
		m := monthStart(r.EnrollmentDate.Time)
		perMonth[m]++
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var series []MonthlyTotal
	total := 0
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		total += perMonth[m]
		series = append(series, MonthlyTotal{
			MonthEnd: m.AddDate(0, 1, -1),
			Total:    total,
		})
	}
	return series
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ErrTooFewPoints is returned when a trend cannot be fitted.
var ErrTooFewPoints = errors.New("at least two distinct ages are needed for a trend line")

// LinearTrend fits systolic blood pressure against age by least squares.
func LinearTrend(records []trial.PatientRecord) (slope, intercept float64, err error) {
	xs, ys := ageAndBP(records)
	if !hasSpread(xs) {
		return 0, 0, ErrTooFewPoints
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept, nil
}

func ageAndBP(records []trial.PatientRecord) (ages, bps []float64) {
	ages = make([]float64, len(records))
	bps = make([]float64, len(records))
	for i, r := range records {
		ages[i] = float64(r.Age)
		bps[i] = float64(r.SystolicBP)
	}
	return ages, bps
}

func hasSpread(xs []float64) bool {
	for _, x := range xs[min(1, len(xs)):] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// BinEdges picks histogram edges with the "auto" rule: the smaller of the
// Sturges and Freedman-Diaconis bin widths, falling back to Sturges when the
// interquartile range is zero.
func BinEdges(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []float64{lo - 0.5, lo + 0.5}
	}

	n := float64(len(sorted))
	span := hi - lo
	width := span / (math.Log2(n) + 1)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	if fd := 2 * iqr / math.Cbrt(n); fd > 0 && fd < width {
		width = fd
	}

	bins := int(math.Ceil(span / width))
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + span*float64(i)/float64(bins)
	}
	edges[bins] = hi
	return edges
}

// AgeHistogram counts ages per gender into the bins delimited by edges. The
// last bin is closed on the right.
type AgeHistogram struct {
	Edges  []float64
	Counts map[trial.Gender][]int
}

func StackedAgeHistogram(records []trial.PatientRecord) AgeHistogram {
	ages := make([]float64, len(records))
	for i, r := range records {
		ages[i] = float64(r.Age)
	}
	h := AgeHistogram{
		Edges:  BinEdges(ages),
		Counts: make(map[trial.Gender][]int),
	}
	if len(h.Edges) < 2 {
		return h
	}
	for _, g := range trial.Genders() {
		h.Counts[g] = make([]int, len(h.Edges)-1)
	}
	for _, r := range records {
		if bin := h.binOf(float64(r.Age)); bin >= 0 {
			h.Counts[r.Gender][bin]++
		}
	}
	return h
}

func (h AgeHistogram) binOf(v float64) int {
	last := len(h.Edges) - 1
	if v < h.Edges[0] || v > h.Edges[last] {
		return -1
	}
	if v == h.Edges[last] {
		return last - 1
	}
	// first edge strictly greater than v, minus one
	return sort.SearchFloat64s(h.Edges, math.Nextafter(v, math.Inf(1))) - 1
}

// BinWidth is the width of every bin.
func (h AgeHistogram) BinWidth() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// GaussianKDE evaluates a Gaussian kernel density estimate of values at each
// point in grid. The bandwidth follows Scott's rule.
func GaussianKDE(values, grid []float64) []float64 {
	density := make([]float64, len(grid))
	if len(values) < 2 {
		return density
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 {
		return density
	}
	bandwidth := sd * math.Pow(float64(len(values)), -0.2)

	for _, v := range values {
		kernel := distuv.Normal{Mu: v, Sigma: bandwidth}
		for i, x := range grid {
			density[i] += kernel.Prob(x)
		}
	}
	for i := range density {
		density[i] /= float64(len(values))
	}
	return density
}

// linspace returns n evenly spaced points over [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	pts := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range pts {
		pts[i] = lo + step*float64(i)
	}
	return pts
}
