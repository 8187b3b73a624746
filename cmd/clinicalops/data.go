package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanteonNL/clinicalops/internal/agent"
	"github.com/SanteonNL/clinicalops/internal/dataset"
	"github.com/SanteonNL/clinicalops/internal/generator"
	"github.com/SanteonNL/clinicalops/internal/report"
	"github.com/SanteonNL/clinicalops/internal/store"
)

const sampleRows = 5

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic clinical trial dataset",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.Context())
		}),
	}
}

func (a *app) generate(ctx context.Context) error {
	genCfg := generator.DefaultConfig()
	genCfg.Count = a.cfg.RecordCount
	genCfg.Seed = a.cfg.Seed

	a.log.Info().Int("count", genCfg.Count).Int64("seed", genCfg.Seed).Msg("Generating synthetic clinical trial data")
	records := generator.Generate(genCfg)

	if err := dataset.SaveFile(a.cfg.DataPath, records); err != nil {
		return err
	}
	generator.Summarize(records).Log(a.log, records, sampleRows)
	a.log.Info().Str("path", a.cfg.DataPath).Msg("Data saved")

	if !a.cfg.HasDatabase() {
		return nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Replace(ctx, records)
}

func (a *app) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [queries...]",
		Short: "Answer questions about the dataset with charts",
		Long: "Routes each query to one of the four charts and writes it to the output directory.\n" +
			"Without arguments the four demo queries are run.",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			queries := args
			if len(queries) == 0 {
				queries = agent.DemoQueries
			}

			started := time.Now()
			ag, err := a.newAgent(cmd.Context())
			if err != nil {
				return err
			}
			results, err := ag.RunAll(cmd.Context(), queries)
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Intent, res.Path)
			}

			run := report.QueryRun{
				StartedAt: started.UTC(),
				Duration:  time.Since(started).String(),
				Source:    a.source(),
				Records:   ag.Dataset().Len(),
				Results:   results,
			}
			if err != nil {
				run.Error = err.Error()
			}
			if _, werr := report.NewWriter(a.cfg.OutputDir, a.log).WriteQueryRun(run); werr != nil {
				a.log.Warn().Err(werr).Msg("Failed to write query report")
			}
			return err
		}),
	}
}

func (a *app) newAgent(ctx context.Context) (*agent.Agent, error) {
	ds, err := a.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return agent.New(ds, a.cfg.OutputDir, nil, a.log)
}

// source names where loadDataset reads from.
func (a *app) source() string {
	if a.cfg.HasDatabase() {
		return a.cfg.DatabaseDriver
	}
	return a.cfg.DataPath
}

// loadDataset reads from the record store when one is configured and from
// the CSV file otherwise.
func (a *app) loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if a.cfg.HasDatabase() {
		s, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Load(ctx)
	}

	ds, err := dataset.LoadFile(a.cfg.DataPath)
	if errors.Is(err, dataset.ErrNotFound) {
		a.log.Error().Str("path", a.cfg.DataPath).Msg("Data file not found, run generate first")
	}
	return ds, err
}

func (a *app) openStore(ctx context.Context) (*store.RecordStore, error) {
	s, err := store.Open(a.cfg.DatabaseDriver, a.cfg.DatabaseURL, a.log)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
