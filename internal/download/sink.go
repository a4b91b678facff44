// Package download saves generated cover images to disk.
package download

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// Sink accepts a resolved image URL and a suggested filename.
type Sink interface {
	Save(ctx context.Context, imageURL, filename string) (string, error)
}

const defaultExt = ".png"

var knownExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// FileSink downloads images into a directory.
type FileSink struct {
	dir  string
	rest *resty.Client
	log  logger.Logger
	now  func() time.Time
}

// NewFileSink creates a sink writing into dir, which is created on first save.
func NewFileSink(dir string, httpClient *http.Client, log logger.Logger) *FileSink {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FileSink{
		dir:  dir,
		rest: resty.NewWithClient(httpClient),
		log:  log,
		now:  time.Now,
	}
}

// Save downloads imageURL. An empty filename becomes cover_<unix millis>
// with the URL's image extension, or .png. It returns the written path.
func (s *FileSink) Save(ctx context.Context, imageURL, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename(imageURL, s.now())
	}
	filename = filepath.Base(filename)

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	target := filepath.Join(s.dir, filename)

	resp, err := s.rest.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if !resp.IsSuccess() {
		return "", fmt.Errorf("download image: HTTP %d", resp.StatusCode())
	}

	f, err := os.CreateTemp(s.dir, ".cover-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	n, err := f.ReadFrom(body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	if err = os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("move image into place: %w", err)
	}

	s.log.Info("Cover image saved", logger.String("path", target), logger.Int("bytes", int(n)))
	return target, nil
}

// DefaultFilename names a download after the current time.
func DefaultFilename(imageURL string, now time.Time) string {
	ext := defaultExt
	if u, err := url.Parse(imageURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); knownExts[e] {
			ext = e
		}
	}
	return fmt.Sprintf("cover_%d%s", now.UnixMilli(), ext)
}
