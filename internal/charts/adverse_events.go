package charts

import (
	"github.com/SanteonNL/clinicalops/models/trial"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// AdverseEvents is the severity-count bar chart, bars ordered None to Severe.
func AdverseEvents() Renderer {
	return &template{
		fileName: "adverse_events.png",
		title:    "Distribution of Adverse Event Severity",
		width:    10 * vg.Inch,
		height:   6 * vg.Inch,
		build:    buildAdverseEvents,
	}
}

func buildAdverseEvents(records []trial.PatientRecord) (*plot.Plot, error) {
	p := newPlot("Distribution of Adverse Event Severity", "Severity Level", "Count of Patients")
	p.Add(dashedGrid(0.7, false))

	counts := SeverityCounts(records)
	names := make([]string, len(counts))
	for i, level := range trial.Severities() {
		names[i] = level.String()

		bar, err := plotter.NewBarChart(plotter.Values{float64(counts[i])}, vg.Points(60))
		if err != nil {
			return nil, err
		}
		bar.XMin = float64(i)
		bar.Color = viridis[i%len(viridis)]
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	p.NominalX(names...)
	p.Y.Min = 0
	return p, nil
}
