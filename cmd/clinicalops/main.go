package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SanteonNL/clinicalops/internal/config"
	"github.com/SanteonNL/clinicalops/internal/logging"
)

// app is the state shared by every subcommand once the root has resolved
// the configuration.
type app struct {
	envFile  string
	logLevel string
	logFile  string

	cfg     *config.Config
	log     zerolog.Logger
	closers []io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "clinicalops",
		Short:         "Clinical trial data generator and chart agent",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")

	rootCmd.AddCommand(a.generateCmd())
	rootCmd.AddCommand(a.queryCmd())
	rootCmd.AddCommand(a.diagramsCmd())
	rootCmd.AddCommand(a.gifCmd())
	rootCmd.AddCommand(a.publishCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	if a.logFile == "" {
		a.log = logging.New(cfg.LogLevel, cmd.ErrOrStderr())
		return nil
	}
	log, f, err := logging.NewWithFile(cfg.LogLevel, cmd.ErrOrStderr(), a.logFile)
	if err != nil {
		return err
	}
	a.log = log
	a.closers = append(a.closers, f)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close()
	}
	a.closers = nil
}

// run logs a failed command before cobra reports it.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			a.log.Error().Err(err).Str("command", cmd.Name()).Msg("Command failed")
			// PersistentPostRun is skipped when RunE fails.
			a.close()
			return err
		}
		return nil
	}
}
