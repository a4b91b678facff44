package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/download"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

func TestDefaultFilename(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "cover_1700000000123.jpg", download.DefaultFilename("https://x/a/b.JPG?sig=1", now))
	assert.Equal(t, "cover_1700000000123.png", download.DefaultFilename("https://x/a/b", now))
	assert.Equal(t, "cover_1700000000123.png", download.DefaultFilename("::bad", now))
}

func TestFileSink_Save(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.webp" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("RIFFfakewebp"))
	}))
	t.Cleanup(srv.Close)

	dir := filepath.Join(t.TempDir(), "covers")
	sink := download.NewFileSink(dir, srv.Client(), logger.NewNop())

	path, err := sink.Save(context.Background(), srv.URL+"/img.webp", "")
	require.NoError(t, err)
	assert.Equal(t, ".webp", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFFfakewebp", string(data))

	named, err := sink.Save(context.Background(), srv.URL+"/img.webp", "../escape.webp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.webp"), named)

	_, err = sink.Save(context.Background(), srv.URL+"/missing.png", "x.png")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "x.png"))
	assert.True(t, os.IsNotExist(statErr))
}
