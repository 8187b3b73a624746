// Package publish posts a markdown article to the dev.to articles API.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"
)

var ErrMissingAPIKey = errors.New("DEVTO_API_KEY not found in environment")

// StatusError is returned when the API answers with anything but 201.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to publish: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	BaseURI    string
	APIKey     string
	HTTPClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURI, apiKey string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURI:    baseURI,
		APIKey:     apiKey,
		HTTPClient: httpClient,
		log:        log,
	}
}

type articleRequest struct {
	Article articleFields `json:"article"`
}

type articleFields struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags"`
	MainImage    *string  `json:"main_image"`
}

type articleResponse struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// PublishFile reads the article at path and publishes it. The API key is
// checked before the file is touched.
func (c *Client) PublishFile(ctx context.Context, path string) (string, error) {
	if c.APIKey == "" {
		c.log.Error().Msg("DEVTO_API_KEY not found in environment. Cannot publish.")
		return "", ErrMissingAPIKey
	}

	f, err := os.Open(path)
	if err != nil {
		c.log.Error().Str("path", path).Msg("Article file not found")
		return "", fmt.Errorf("failed to open article: %w", err)
	}
	defer f.Close()

	c.log.Info().Str("path", path).Msg("Reading article")
	article, err := ParseArticle(f)
	if err != nil {
		return "", err
	}
	return c.Publish(ctx, article)
}

// Publish creates the article as published and returns its URL.
func (c *Client) Publish(ctx context.Context, article *Article) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	fields := articleFields{
		Title:        article.Title,
		BodyMarkdown: article.Body,
		Published:    true,
		Tags:         article.Tags,
	}
	if fields.Tags == nil {
		fields.Tags = []string{}
	}
	if article.CoverImage != "" {
		fields.MainImage = &article.CoverImage
	}
	payload, err := json.Marshal(articleRequest{Article: fields})
	if err != nil {
		return "", err
	}

	uri, err := url.JoinPath(c.BaseURI, "articles")
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info().Str("title", article.Title).Msg("Publishing article")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		c.log.Error().Int("status", resp.StatusCode).Str("response", string(body)).Msg("Failed to publish")
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created articleResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	c.log.Info().Str("url", created.URL).Msg("Successfully published")
	return created.URL, nil
}
