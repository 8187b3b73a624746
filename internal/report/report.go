// Package report records what a run produced next to its charts.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/SanteonNL/clinicalops/internal/agent"
)

const QueryResultsFile = "query_results.json"

// QueryRun is the record of one query invocation.
type QueryRun struct {
	StartedAt time.Time      `json:"started_at"`
	Duration  string         `json:"duration"`
	Source    string         `json:"source"`
	Records   int            `json:"records"`
	Results   []agent.Result `json:"results"`
	Error     string         `json:"error,omitempty"`
}

type Writer struct {
	baseDir string
	log     zerolog.Logger
}

func NewWriter(baseDir string, log zerolog.Logger) *Writer {
	return &Writer{
		baseDir: baseDir,
		log:     log,
	}
}

// Path returns the full path for filename inside the report directory.
func (w *Writer) Path(filename string) string {
	return filepath.Join(w.baseDir, filename)
}

// WriteJSON writes data as indented JSON to filename, replacing any earlier
// file.
func (w *Writer) WriteJSON(filename string, data interface{}) (string, error) {
	if err := os.MkdirAll(w.baseDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := w.Path(filename)
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode data to JSON: %w", err)
	}

	w.log.Debug().Str("file", outputPath).Msg("Wrote data to JSON file")
	return outputPath, nil
}

// WriteQueryRun stores run as QueryResultsFile.
func (w *Writer) WriteQueryRun(run QueryRun) (string, error) {
	if run.Results == nil {
		run.Results = []agent.Result{}
	}
	return w.WriteJSON(QueryResultsFile, run)
}
