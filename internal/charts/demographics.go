package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/SanteonNL/clinicalops/models/trial"
)

const kdePoints = 200

// Demographics is the age histogram stacked by gender with a density curve
// per gender, scaled to counts.
func Demographics() Renderer {
	return &template{
		fileName: "demographics.png",
		title:    "Patient Demographics: Age and Gender Distribution",
		width:    10 * vg.Inch,
		height:   6 * vg.Inch,
		build:    buildDemographics,
	}
}

func buildDemographics(records []trial.PatientRecord) (*plot.Plot, error) {
	p := newPlot("Patient Demographics: Age and Gender Distribution", "Age", "Count")
	p.Legend.Top = true

	h := StackedAgeHistogram(records)
	if len(h.Edges) < 2 {
		return p, nil
	}
	genders := trial.Genders()

	// Stack bottom-up in legend order. Each layer is drawn as the running
	// total, tallest first, so lower layers paint over the upper ones.
	cumulative := make([][]float64, len(genders))
	running := make([]float64, len(h.Edges)-1)
	for gi, g := range genders {
		for b, c := range h.Counts[g] {
			running[b] += float64(c)
		}
		cumulative[gi] = append([]float64(nil), running...)
	}
	layers := make([]*plotter.Histogram, len(genders))
	for gi := len(genders) - 1; gi >= 0; gi-- {
		bins := make([]plotter.HistogramBin, len(running))
		for b := range bins {
			bins[b] = plotter.HistogramBin{Min: h.Edges[b], Max: h.Edges[b+1], Weight: cumulative[gi][b]}
		}
		layer := &plotter.Histogram{
			Bins:      bins,
			Width:     h.BinWidth(),
			FillColor: genderColor(pastel, genders[gi]),
			LineStyle: plotter.DefaultLineStyle,
		}
		layer.LineStyle.Width = vg.Points(0.5)
		layers[gi] = layer
		p.Add(layer)
	}
	for gi, g := range genders {
		if total(h.Counts[g]) > 0 {
			p.Legend.Add(g.String(), layers[gi])
		}
	}

	// density curves, stacked the same way as the bars
	grid := linspace(h.Edges[0], h.Edges[len(h.Edges)-1], kdePoints)
	stacked := make([]float64, len(grid))
	for _, g := range genders {
		var ages []float64
		for _, r := range records {
			if r.Gender == g {
				ages = append(ages, float64(r.Age))
			}
		}
		if len(ages) < 2 {
			continue
		}
		density := GaussianKDE(ages, grid)
		scale := float64(len(ages)) * h.BinWidth()
		xys := make(plotter.XYs, len(grid))
		for i, x := range grid {
			stacked[i] += density[i] * scale
			xys[i] = plotter.XY{X: x, Y: stacked[i]}
		}
		curve, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		curve.LineStyle.Color = genderColor(deep, g)
		curve.LineStyle.Width = vg.Points(1.5)
		p.Add(curve)
	}
	p.Y.Min = 0
	return p, nil
}

func total(counts []int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
