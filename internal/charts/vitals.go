package charts

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/SanteonNL/clinicalops/models/trial"
)

// Vitals is the age against systolic blood pressure scatter, colored by
// gender, with a least-squares trend line.
func Vitals() Renderer {
	return &template{
		fileName: "vitals_analysis.png",
		title:    "Systolic Blood Pressure vs. Age",
		width:    10 * vg.Inch,
		height:   6 * vg.Inch,
		build:    buildVitals,
	}
}

func buildVitals(records []trial.PatientRecord) (*plot.Plot, error) {
	p := newPlot("Systolic Blood Pressure vs. Age", "Age (Years)", "Systolic BP (mmHg)")
	p.Add(dashedGrid(0.5, true))
	p.Legend.Top = true

	byGender := make(map[trial.Gender]plotter.XYs)
	for _, r := range records {
		byGender[r.Gender] = append(byGender[r.Gender], plotter.XY{X: float64(r.Age), Y: float64(r.SystolicBP)})
	}
	for _, g := range trial.Genders() {
		xys, ok := byGender[g]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = withAlpha(genderColor(deep, g), 0.6)
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(g.String(), scatter)
	}

	slope, intercept, err := LinearTrend(records)
	if errors.Is(err, ErrTooFewPoints) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	lo, hi := ageRange(records)
	trend, err := plotter.NewLine(plotter.XYs{
		{X: lo, Y: intercept + slope*lo},
		{X: hi, Y: intercept + slope*hi},
	})
	if err != nil {
		return nil, err
	}
	trend.LineStyle.Color = red
	trend.LineStyle.Width = vg.Points(2)
	p.Add(trend)
	p.Legend.Add("Trend", trend)
	return p, nil
}

func ageRange(records []trial.PatientRecord) (lo, hi float64) {
	if len(records) == 0 {
		return 0, 0
	}
	lo, hi = float64(records[0].Age), float64(records[0].Age)
	for _, r := range records[1:] {
		lo = min(lo, float64(r.Age))
		hi = max(hi, float64(r.Age))
	}
	return lo, hi
}
