package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanteonNL/clinicalops/internal/agent"
)

func TestWriteQueryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	w := NewWriter(dir, zerolog.Nop())

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	path, err := w.WriteQueryRun(QueryRun{
		StartedAt: started,
		Duration:  "1.5s",
		Source:    "clinical_trial_data.csv",
		Records:   500,
		Results: []agent.Result{
			{Query: "hello", Intent: agent.IntentDemographics, Default: true, Path: "output/demographics.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, QueryResultsFile), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "2024-03-01T12:00:00Z", got["started_at"])
	assert.Equal(t, float64(500), got["records"])
	assert.NotContains(t, got, "error")

	results := got["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "demographics", first["intent"])
	assert.Equal(t, true, first["default"])
}

func TestWriteQueryRun_EmptyAndOverwrite(t *testing.T) {
	w := NewWriter(t.TempDir(), zerolog.Nop())

	_, err := w.WriteQueryRun(QueryRun{Records: 1, Error: "first"})
	require.NoError(t, err)
	path, err := w.WriteQueryRun(QueryRun{Records: 2})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var run QueryRun
	require.NoError(t, json.Unmarshal(b, &run))
	assert.Equal(t, 2, run.Records)
	assert.Empty(t, run.Error)
	assert.NotNil(t, run.Results)
	assert.Contains(t, string(b), `"results": []`)
}
