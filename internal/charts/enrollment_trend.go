package charts

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/SanteonNL/clinicalops/models/trial"
)

// EnrollmentTrend is the cumulative month-end enrollment line chart.
func EnrollmentTrend() Renderer {
	return &template{
		fileName: "enrollment_trend.png",
		title:    "Cumulative Study Enrollment Over Time",
		width:    12 * vg.Inch,
		height:   6 * vg.Inch,
		build:    buildEnrollmentTrend,
	}
}

func buildEnrollmentTrend(records []trial.PatientRecord) (*plot.Plot, error) {
	p := newPlot("Cumulative Study Enrollment Over Time", "Date", "Cumulative Patients Enrolled")
	p.Add(dashedGrid(0.6, true))
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	series := CumulativeMonthly(records)
	if len(series) == 0 {
		return p, nil
	}
	xys := make(plotter.XYs, len(series))
	for i, m := range series {
		xys[i].X = float64(m.MonthEnd.Unix())
		xys[i].Y = float64(m.Total)
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = teal
	line.LineStyle.Width = vg.Points(2)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = teal
	points.GlyphStyle.Radius = vg.Points(3)
	p.Add(line, points)
	return p, nil
}
