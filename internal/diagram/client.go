// Package diagram downloads rendered Mermaid diagrams from a mermaid.ink
// compatible service.
package diagram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Client fetches PNG renderings of Mermaid sources.
type Client struct {
	BaseURI    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURI string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURI:    baseURI,
		HTTPClient: httpClient,
		log:        log,
	}
}

// ImageURL returns the rendering endpoint for source: the source is base64
// encoded into the path under /img/.
func (c *Client) ImageURL(source string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(source))
	// The encoding may contain "//", which JoinPath would clean, so it is
	// appended verbatim.
	base, err := url.JoinPath(c.BaseURI, "img")
	if err != nil {
		return "", err
	}
	return base + "/" + encoded, nil
}

// Fetch downloads one diagram into dir as <name>.png and returns the path.
func (c *Client) Fetch(ctx context.Context, d Diagram, dir string) (string, error) {
	uri, err := c.ImageURL(d.Source)
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", d.Name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}

	c.log.Info().Str("diagram", d.Name).Msg("Downloading diagram")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", d.Name, resp.StatusCode)
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	path := filepath.Join(dir, d.Name+".png")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	c.log.Info().Str("diagram", d.Name).Str("path", path).Msg("Saved diagram")
	return path, nil
}

// FetchAll downloads every diagram. A failed diagram is logged and skipped;
// the failures are returned joined after all diagrams were attempted.
func (c *Client) FetchAll(ctx context.Context, diagrams []Diagram, dir string) ([]string, error) {
	var paths []string
	var errs []error
	for _, d := range diagrams {
		path, err := c.Fetch(ctx, d, dir)
		if err != nil {
			c.log.Error().Err(err).Str("diagram", d.Name).Msg("Failed to generate diagram")
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
