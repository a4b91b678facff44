// Package watch implements the watch command.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/page"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

// Command returns the watch command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <snapshot.html>",
		Short: "Re-infer the title whenever a page snapshot navigates",
		Long: `Watch an HTML snapshot that is rewritten as the editor navigates. Each
time the recorded address changes, the title is inferred again after the
rescan delay and printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = Run(ctx, args[0], deps.Engine, deps.Config.Title.RescanDelay, cmd.OutOrStdout(), deps.Logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// Engine infers titles from documents.
type Engine interface {
	Explain(doc title.Document, origin string) title.Report
	Rules() title.Rules
}

// Run watches the snapshot at path and writes "address<TAB>title" to out for
// each settled navigation. It returns when ctx is done.
func Run(ctx context.Context, path string, engine Engine, delay time.Duration, out io.Writer, log logger.Logger) error {
	addresses, err := page.NewFileObserver(path, log).Watch(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	scan := func(_ context.Context, address string) {
		text, scanErr := inferSnapshot(path, engine, log)

		mu.Lock()
		defer mu.Unlock()
		if scanErr != nil {
			log.Warn("Title not inferred", logger.String("address", address), logger.Error(scanErr))
			fmt.Fprintf(out, "%s\t(%s)\n", address, coverr.UserMessage(scanErr))
			return
		}
		fmt.Fprintf(out, "%s\t%s\n", address, text)
	}

	log.Info("Watching snapshot", logger.String("path", path), logger.Duration("rescan_delay", delay))
	return title.NewWatcher(delay, scan, log).Run(ctx, addresses)
}

func inferSnapshot(path string, engine Engine, log logger.Logger) (string, error) {
	p, err := page.LoadSnapshot(path)
	if err != nil {
		return "", err
	}
	if !page.IsSupportedEditor(engine.Rules(), p.Origin) {
		log.Debug("Snapshot is not from a known editor, using generic title rules",
			logger.String("origin", p.Origin))
	}

	report := engine.Explain(p.Document, p.Origin)
	if report.Title == nil {
		return "", coverr.TitleNotFound(p.Address)
	}
	return report.Title.Text, nil
}
