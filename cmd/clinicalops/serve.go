package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SanteonNL/clinicalops/internal/api"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart agent over HTTP",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		}),
	}
}

func (a *app) serve(ctx context.Context) error {
	ag, err := a.newAgent(ctx)
	if err != nil {
		return err
	}
	router := api.NewChartRouter(ag, a.log)
	return api.ListenAndServe(ctx, net.JoinHostPort("", a.cfg.Port), router.SetupRoutes(), a.log)
}
