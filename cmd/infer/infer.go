// Package infer implements the title command.
package infer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

// Command returns the title command.
func Command() *cobra.Command {
	var (
		showCandidates bool
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "title <address>",
		Short: "Infer the article title of an editor page",
		Long: `Load a page over HTTP, or from a saved HTML snapshot (a path or file://
URL), and print the article title found on it.

Examples:
  cover-generator title https://mp.weixin.qq.com/cgi-bin/appmsg?t=media/appmsg_edit
  cover-generator title ./draft.html --candidates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			report, err := deps.Service.InferTitle(cmd.Context(), args[0])
			if err != nil {
				if showCandidates {
					PrintCandidates(cmd.OutOrStdout(), report)
				}
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case showCandidates:
				PrintCandidates(out, report)
			default:
				fmt.Fprintln(out, report.Title.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCandidates, "candidates", false, "print every ranked candidate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full inference report as JSON")

	return cmd
}

// PrintCandidates renders the chosen title and the ranked candidates.
func PrintCandidates(w io.Writer, report title.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Confidence", "Text"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: maxTextWidth},
	})

	rows := report.Candidates
	if len(rows) == 0 && report.Title != nil {
		rows = []title.Candidate{*report.Title}
	}
	for i, c := range rows {
		t.AppendRow(table.Row{i + 1, c.Source, fmt.Sprintf("%.1f", c.Confidence), c.Text})
	}

	chosen := "(none)"
	if report.Title != nil {
		chosen = report.Title.Text
	}
	t.SetCaption("Origin: %s\nChosen: %s", report.Origin, chosen)
	t.Render()
}

const maxTextWidth = 80
