package infer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/infer"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

func TestPrintCandidates(t *testing.T) {
	t.Parallel()

	report := title.Report{
		Origin: "https://example.com",
		Title:  &title.Candidate{Text: "Quarterly Report", Confidence: 0.9, Source: title.SourceInputTitleHeuristic},
		Candidates: []title.Candidate{
			{Text: "Quarterly Report", Confidence: 0.9, Source: title.SourceInputTitleHeuristic},
			{Text: "Section One", Confidence: 0.6, Source: title.SourceHeadingElement},
		},
	}

	var buf bytes.Buffer
	infer.PrintCandidates(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "input_title_heuristic")
	assert.Contains(t, out, "Section One")
	assert.Contains(t, out, "0.6")
}

func TestPrintCandidates_NoTitle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	infer.PrintCandidates(&buf, title.Report{Origin: "https://example.com"})

	assert.Contains(t, buf.String(), "(none)")
}
