package diagram

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURL(t *testing.T) {
	c := NewClient("https://mermaid.ink", nil, zerolog.Nop())
	src := "graph TD\n A-->B"

	uri, err := c.ImageURL(src)
	require.NoError(t, err)
	assert.Equal(t, "https://mermaid.ink/img/"+base64.StdEncoding.EncodeToString([]byte(src)), uri)
}

func TestFetchAll(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded := strings.TrimPrefix(r.URL.Path, "/img/")
		src, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		requested = append(requested, string(src))
		if strings.Contains(string(src), "broken") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png:" + string(src)))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "images")
	c := NewClient(srv.URL, srv.Client(), zerolog.Nop())
	diagrams := []Diagram{
		{Name: "first", Source: "graph TD\n A-->B"},
		{Name: "second", Source: "broken"},
		{Name: "third", Source: "flowchart LR\n X-->Y"},
	}

	paths, err := c.FetchAll(context.Background(), diagrams, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.Contains(t, err.Error(), "status 400")
	assert.Len(t, requested, 3, "a failure does not stop the remaining diagrams")

	require.Equal(t, []string{filepath.Join(dir, "first.png"), filepath.Join(dir, "third.png")}, paths)
	b, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "png:graph TD\n A-->B", string(b))
	assert.NoFileExists(t, filepath.Join(dir, "second.png"))
}

func TestFetchAll_Builtin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	paths, err := NewClient(srv.URL, srv.Client(), zerolog.Nop()).FetchAll(context.Background(), Builtin, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "title_diagram.png"),
		filepath.Join(dir, "architecture.png"),
	}, paths)
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, nil, zerolog.Nop()).Fetch(context.Background(), Builtin[0], t.TempDir())
	assert.Error(t, err)
}
