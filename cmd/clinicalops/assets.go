package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SanteonNL/clinicalops/internal/animation"
	"github.com/SanteonNL/clinicalops/internal/diagram"
	"github.com/SanteonNL/clinicalops/internal/httpclient"
	"github.com/SanteonNL/clinicalops/internal/publish"
)

func (a *app) httpClient() *http.Client {
	return httpclient.New(a.cfg.HTTPTimeout, a.cfg.HTTPRetryMax, a.log)
}

func (a *app) diagramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagrams",
		Short: "Download the Mermaid diagrams as PNG",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			client := diagram.NewClient(a.cfg.MermaidURL, a.httpClient(), a.log)
			paths, err := client.FetchAll(cmd.Context(), diagram.Builtin, a.cfg.ImagesDir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		}),
	}
}

func (a *app) gifCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gif",
		Short: "Assemble the title diagram and charts into an animated GIF",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			dest := filepath.Join(a.cfg.ImagesDir, animation.FileName)
			frames := animation.DefaultFrames(a.cfg.ImagesDir, a.cfg.OutputDir)
			if err := animation.Write(frames, dest, a.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		}),
	}
}

func (a *app) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the generated article to dev.to",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			client := publish.NewClient(a.cfg.DevtoAPIURL, a.cfg.DevtoAPIKey, a.httpClient(), a.log)
			url, err := client.PublishFile(cmd.Context(), a.cfg.ArticlePath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}),
	}
}
