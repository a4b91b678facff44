// Package generate implements the generate command.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/cover"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/download"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

var errNoInput = errors.New("one of --title or --page is required")

// Options are the generate command flags.
type Options struct {
	Title      string
	Page       string
	Download   bool
	Dir        string
	APIToken   string
	WorkflowID string
	JSON       bool
}

// Validate checks that exactly one input was given.
func (o Options) Validate() error {
	switch {
	case o.Title == "" && o.Page == "":
		return errNoInput
	case o.Title != "" && o.Page != "":
		return errors.New("--title and --page are mutually exclusive")
	}
	return nil
}

// Result is what the command prints.
type Result struct {
	Title string                  `json:"title"`
	Image workflow.ExtractedImage `json:"image"`
	Saved string                  `json:"saved,omitempty"`
}

// Command returns the generate command.
func Command() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a cover image for a title or an editor page",
		Long: `Submit a title to the Coze workflow and print the generated image URL.
With --page the title is inferred from the page first.

Examples:
  cover-generator generate --title "Spring Recipes"
  cover-generator generate --page ./draft.html --download`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			deps, err := common.NewDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			var sink download.Sink
			if opts.Download {
				sink = SinkFor(deps, opts.Dir)
			}

			res, err := Run(cmd.Context(), deps.Service, sink, opts)
			if err != nil {
				return err
			}
			return printResult(cmd, res, opts.JSON)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Title, "title", "t", "", "article title to generate a cover for")
	f.StringVarP(&opts.Page, "page", "p", "", "editor page address or HTML snapshot to infer the title from")
	f.BoolVarP(&opts.Download, "download", "d", false, "save the image locally")
	f.StringVar(&opts.Dir, "dir", "", "download directory (default from config)")
	f.StringVar(&opts.APIToken, "token", "", "override the configured API token")
	f.StringVar(&opts.WorkflowID, "workflow", "", "override the configured workflow ID")
	f.BoolVar(&opts.JSON, "json", false, "print the result as JSON")

	return cmd
}

// SinkFor returns the configured sink, or one writing into dir over the
// shared HTTP client when dir is set.
func SinkFor(deps *common.Deps, dir string) *download.FileSink {
	if dir == "" {
		return deps.Sink
	}
	return download.NewFileSink(dir, deps.HTTPClient, deps.Logger)
}

// Service is the subset of cover.Service the command uses.
type Service interface {
	GenerateWith(ctx context.Context, store cover.CredentialStore, text string) (workflow.ExtractedImage, error)
	GenerateForPageWith(ctx context.Context, store cover.CredentialStore, address string) (cover.Generation, error)
	Credentials() cover.CredentialStore
}

// Run generates the cover described by opts and saves it when sink is set.
func Run(ctx context.Context, svc Service, sink download.Sink, opts Options) (Result, error) {
	store := cover.OverrideCredentials{
		Base:     svc.Credentials(),
		Override: workflow.Credentials{APIToken: opts.APIToken, WorkflowID: opts.WorkflowID},
	}

	var res Result
	if opts.Title != "" {
		img, err := svc.GenerateWith(ctx, store, opts.Title)
		if err != nil {
			return Result{}, err
		}
		res = Result{Title: opts.Title, Image: img}
	} else {
		gen, err := svc.GenerateForPageWith(ctx, store, opts.Page)
		if err != nil {
			return Result{}, err
		}
		res = Result{Title: gen.Title.Text, Image: gen.Image}
	}

	if sink != nil {
		path, err := sink.Save(ctx, res.Image.URL, download.DefaultFilename(res.Image.URL, time.Now()))
		if err != nil {
			return res, fmt.Errorf("download image: %w", err)
		}
		res.Saved = path
	}

	return res, nil
}

func printResult(cmd *cobra.Command, res Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Title: %s\n", res.Title)
	fmt.Fprintf(out, "Image: %s\n", res.Image.URL)
	if res.Saved != "" {
		fmt.Fprintf(out, "Saved: %s\n", res.Saved)
	}
	return nil
}
