package page

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// FileObserver reports the address recorded in a snapshot file each time the
// file is written. A browser extension or editor plugin that saves the open
// page to disk on navigation turns this into an address-change feed.
type FileObserver struct {
	path string
	log  logger.Logger
}

// NewFileObserver creates an observer for the snapshot at path.
func NewFileObserver(path string, log logger.Logger) *FileObserver {
	return &FileObserver{path: filepath.Clean(path), log: log}
}

// Watch starts watching and returns a channel of addresses. The current
// address is sent first. The channel closes when ctx is done.
func (o *FileObserver) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Watch the directory so atomic rename-over saves are seen.
	if err = watcher.Add(filepath.Dir(o.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(o.path), err)
	}

	out := make(chan string, 1)
	go o.loop(ctx, watcher, out)

	return out, nil
}

func (o *FileObserver) loop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer func() { _ = watcher.Close() }()

	o.emit(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != o.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				o.emit(ctx, out)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			o.log.Warn("Snapshot watcher error", logger.String("path", o.path), logger.Error(err))
		}
	}
}

func (o *FileObserver) emit(ctx context.Context, out chan<- string) {
	addr, err := o.address()
	if err != nil {
		o.log.Debug("Snapshot not readable yet", logger.String("path", o.path), logger.Error(err))
		return
	}

	select {
	case out <- addr:
	case <-ctx.Done():
	}
}

// address returns the recorded address, or the file URL when none is recorded.
func (o *FileObserver) address() (string, error) {
	data, err := os.ReadFile(o.path)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse snapshot: %w", err)
	}

	if recorded := RecordedAddress(doc); recorded != "" {
		return recorded, nil
	}
	return "file://" + filepath.ToSlash(o.path), nil
}
