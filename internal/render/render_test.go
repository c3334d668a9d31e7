package render

import (
	"bytes"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":       {Data: []byte("<html><body><h1>Index</h1></body></html>")},
		"trim.html":        {Data: []byte("<p>{{- \"  trimmed\" -}}</p>")},
		"broken.html":      {Data: []byte("<p>{{ if }}</p>")},
		"nested/page.html": {Data: []byte("<p>nested</p>")},
	}
}

func TestTemplateRendererRendersWithoutData(t *testing.T) {
	tr := NewTemplateRenderer(testFS())

	var buf bytes.Buffer
	require.NoError(t, tr.Render(&buf, "index.html"))
	assert.Equal(t, "<html><body><h1>Index</h1></body></html>", buf.String())

	buf.Reset()
	require.NoError(t, tr.Render(&buf, "trim.html"))
	assert.Equal(t, "<p>  trimmed</p>", buf.String())
}

func TestTemplateRendererErrors(t *testing.T) {
	tr := NewTemplateRenderer(testFS())

	var buf bytes.Buffer
	err := tr.Render(&buf, "missing.html")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	err = tr.Render(&buf, "broken.html")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTemplateNotFound)

	for _, name := range []string{"", ".", "../index.html", "nested/page.html", `nested\page.html`, "/index.html"} {
		err = tr.Render(&buf, name)
		assert.ErrorIs(t, err, ErrTemplateNotFound, "name %q", name)
	}
	assert.Zero(t, buf.Len())
}

func TestTemplateRendererCaches(t *testing.T) {
	fsys := testFS()
	tr := NewTemplateRenderer(fsys)

	var first, second bytes.Buffer
	require.NoError(t, tr.Render(&first, "index.html"))

	// cached copy survives changes on disk
	fsys["index.html"] = &fstest.MapFile{Data: []byte("<p>changed</p>")}
	require.NoError(t, tr.Render(&second, "index.html"))
	assert.Equal(t, first.String(), second.String())

	stats := tr.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestTemplateRendererReload(t *testing.T) {
	fsys := testFS()
	tr := NewTemplateRenderer(fsys, WithReload(true))

	var buf bytes.Buffer
	require.NoError(t, tr.Render(&buf, "index.html"))

	fsys["index.html"] = &fstest.MapFile{Data: []byte("<p>changed</p>")}
	buf.Reset()
	require.NoError(t, tr.Render(&buf, "index.html"))
	assert.Equal(t, "<p>changed</p>", buf.String())
	assert.Zero(t, tr.Stats().Entries)
}

func TestPreload(t *testing.T) {
	tr := NewTemplateRenderer(testFS())
	require.NoError(t, tr.Preload("index.html", "trim.html"))
	assert.Equal(t, 2, tr.Stats().Entries)

	err := tr.Preload("index.html", "missing.html")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateRendererConcurrent(t *testing.T) {
	tr := NewTemplateRenderer(testFS())

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var buf bytes.Buffer
			if err := tr.Render(&buf, "index.html"); err == nil {
				results[i] = buf.String()
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "<html><body><h1>Index</h1></body></html>", r)
	}
	assert.Equal(t, 1, tr.Stats().Entries)
}

func TestStaticRenderer(t *testing.T) {
	sr := NewStaticRenderer(testFS())

	var buf bytes.Buffer
	require.NoError(t, sr.Render(&buf, "broken.html"))
	assert.Equal(t, "<p>{{ if }}</p>", buf.String())

	err := sr.Render(&buf, "missing.html")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderersSatisfyInterface(t *testing.T) {
	var _ Renderer = NewTemplateRenderer(testFS())
	var _ Renderer = NewStaticRenderer(testFS())
}
