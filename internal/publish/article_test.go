package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArticle(t *testing.T) {
	doc := `---
title: "Building a ClinicalOps Agent"
tags: [go, healthcare, datascience]
cover_image: https://example.com/cover.gif
---

# Intro

Body text.
`
	a, err := ParseArticle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Building a ClinicalOps Agent", a.Title)
	assert.Equal(t, Tags{"go", "healthcare", "datascience"}, a.Tags)
	assert.Equal(t, "https://example.com/cover.gif", a.CoverImage)
	assert.Equal(t, "# Intro\n\nBody text.", a.Body)
}

func TestParseArticle_CommaTags(t *testing.T) {
	doc := "---\ntitle: T\ntags: go, testing ,, charts\n---\nbody"
	a, err := ParseArticle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Tags{"go", "testing", "charts"}, a.Tags)
	assert.Equal(t, "body", a.Body)
}

func TestParseArticle_Defaults(t *testing.T) {
	a, err := ParseArticle(strings.NewReader("---\ncover_image: x.png\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, a.Title)
	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Tags)
}

func TestParseArticle_NoFrontMatter(t *testing.T) {
	doc := "# Just markdown\n\n---\n\nwith a rule"
	a, err := ParseArticle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, a.Title)
	assert.Equal(t, doc, a.Body)
}

func TestParseArticle_CRLF(t *testing.T) {
	doc := "\ufeff---\r\ntitle: Windows\r\n---\r\nline one\r\nline two\r\n"
	a, err := ParseArticle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Windows", a.Title)
	assert.Equal(t, "line one\nline two", a.Body)
}

func TestParseArticle_Unterminated(t *testing.T) {
	doc := "---\ntitle: never closed\nbody"
	a, err := ParseArticle(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, a.Title)
	assert.Equal(t, doc, a.Body)
}

func TestParseArticle_InvalidYAML(t *testing.T) {
	_, err := ParseArticle(strings.NewReader("---\ntitle: [unclosed\n---\nbody"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front matter")

	_, err = ParseArticle(strings.NewReader("---\ntags:\n  a: b\n---\nbody"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags must be a list or a string")
}
