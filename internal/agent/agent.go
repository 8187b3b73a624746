package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SanteonNL/clinicalops/internal/charts"
	"github.com/SanteonNL/clinicalops/internal/dataset"
	"github.com/rs/zerolog"
)

// DemoQueries are the prompts the demo runs when no query is given.
var DemoQueries = []string{
	"Show me the progress of patient enrollment over time",
	"Analyze the adverse event severity across the study",
	"Is there a correlation between age and blood pressure?",
	"Give me a breakdown of the patient demographics",
}

// Result describes one answered query.
type Result struct {
	Query   string `json:"query"`
	Intent  Intent `json:"intent"`
	Default bool   `json:"default"`
	Path    string `json:"path"`
}

// Agent answers free-text questions about a loaded dataset with charts.
type Agent struct {
	ds        *dataset.Dataset
	outputDir string
	renderers map[Intent]charts.Renderer
	log       zerolog.Logger
}

// DefaultRenderers binds each intent to its chart template.
func DefaultRenderers() map[Intent]charts.Renderer {
	return map[Intent]charts.Renderer{
		IntentAdverseEvents:   charts.AdverseEvents(),
		IntentEnrollmentTrend: charts.EnrollmentTrend(),
		IntentVitals:          charts.Vitals(),
		IntentDemographics:    charts.Demographics(),
	}
}

// New creates the output directory and returns an agent over ds. A nil
// renderers map selects DefaultRenderers.
func New(ds *dataset.Dataset, outputDir string, renderers map[Intent]charts.Renderer, log zerolog.Logger) (*Agent, error) {
	if ds == nil {
		return nil, errors.New("agent needs a loaded dataset")
	}
	if renderers == nil {
		renderers = DefaultRenderers()
	}
	for _, intent := range Intents() {
		if _, ok := renderers[intent]; !ok {
			return nil, fmt.Errorf("no renderer for intent %s", intent)
		}
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Info().Int("records", ds.Len()).Str("output_dir", outputDir).Msg("Data loaded")
	return &Agent{
		ds:        ds,
		outputDir: outputDir,
		renderers: renderers,
		log:       log,
	}, nil
}

// Run routes query and renders the selected chart into the output directory,
// replacing any earlier file of the same name.
func (a *Agent) Run(ctx context.Context, query string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	intent, matched := Route(query)
	a.log.Info().Str("query", query).Msg("Agent received query")
	if !matched {
		a.log.Warn().Str("query", query).Str("intent", string(intent)).Msg("Query not recognized, using default view")
	}

	res, err := a.Render(intent)
	res.Query = query
	res.Default = !matched
	return res, err
}

// Render draws the chart for intent without routing.
func (a *Agent) Render(intent Intent) (Result, error) {
	renderer, ok := a.renderers[intent]
	if !ok {
		return Result{}, fmt.Errorf("no renderer for intent %s", intent)
	}
	path := a.ChartPath(intent)

	a.log.Debug().Str("intent", string(intent)).Str("file", renderer.FileName()).Msg("Rendering chart")
	if err := renderer.Render(a.ds, path); err != nil {
		return Result{Intent: intent}, fmt.Errorf("failed to render %s: %w", intent, err)
	}
	a.log.Info().Str("intent", string(intent)).Str("path", path).Msg("Chart saved")
	return Result{Intent: intent, Path: path}, nil
}

// RunAll answers queries in order and stops at the first rendering error.
func (a *Agent) RunAll(ctx context.Context, queries []string) ([]Result, error) {
	results := make([]Result, 0, len(queries))
	for _, q := range queries {
		res, err := a.Run(ctx, q)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ChartPath is where the chart for intent is written.
func (a *Agent) ChartPath(intent Intent) string {
	renderer, ok := a.renderers[intent]
	if !ok {
		return ""
	}
	return filepath.Join(a.outputDir, renderer.FileName())
}

// Dataset returns the loaded dataset.
func (a *Agent) Dataset() *dataset.Dataset {
	return a.ds
}
