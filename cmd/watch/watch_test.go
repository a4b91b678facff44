package watch_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/watch"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func snapshot(address, heading string) []byte {
	return []byte(`<html><head><link rel="canonical" href="` + address + `"></head>` +
		`<body><h1>` + heading + `</h1></body></html>`)
}

func TestRun_PrintsTitlePerNavigation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "current.html")
	require.NoError(t, os.WriteFile(path, snapshot("https://example.com/a", "First Draft"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, path, title.NewEngine(logger.NewNop()), 10*time.Millisecond, out, logger.NewNop())
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "https://example.com/a\tFirst Draft")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, snapshot("https://example.com/b", "Second Draft"), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "https://example.com/b\tSecond Draft")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := watch.Run(context.Background(), filepath.Join(t.TempDir(), "nope", "x.html"),
		title.NewEngine(logger.NewNop()), time.Millisecond, &syncBuffer{}, logger.NewNop())

	require.Error(t, err)
}

func TestRun_SupportedEditorUsesPlatformSelectors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "current.html")
	markup := `<html><head><link rel="canonical" href="https://www.xiumi.us/studio/doc"></head>` +
		`<body><input class="title-input" value="Xiumi Title"><h1>Some Heading</h1></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	go func() {
		_ = watch.Run(ctx, path, title.NewEngine(logger.NewNop()), 10*time.Millisecond, out, logger.NewNop())
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "https://www.xiumi.us/studio/doc\tXiumi Title")
	}, 5*time.Second, 10*time.Millisecond)
}
