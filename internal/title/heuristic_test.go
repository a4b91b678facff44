package title_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

func TestCandidates_Scoring(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<h2>Heading Candidate</h2>
		<input value="Plain input text">
		<div contenteditable="">Editable region text</div>
		<div contenteditable="true" class="post-Title">Titled editable text</div>
		<input type="text" id="article_title" value="Hi">
	</body></html>`)

	got := title.Candidates(doc, logger.NewNop())

	want := []struct {
		text   string
		source title.Source
		conf   float64
	}{
		{"Hi", title.SourceInputTitleHeuristic, 0.9},
		{"Titled editable text", title.SourceEditableRegion, 0.8},
		{"Editable region text", title.SourceEditableRegion, 0.7},
		{"Heading Candidate", title.SourceHeadingElement, 0.6},
		{"Plain input text", title.SourceInputTextHeuristic, 0.5},
	}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.text, got[i].Text, "candidate %d", i)
		assert.Equal(t, w.source, got[i].Source, "candidate %d", i)
		assert.InDelta(t, w.conf, got[i].Confidence, 1e-9, "candidate %d", i)
	}
}

func TestCandidates_TiesKeepDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<h1>First heading here</h1><h2>Second heading here</h2><div data-title="x">Third heading here</div>`)

	got := title.Candidates(doc, logger.NewNop())
	require.Len(t, got, 3)
	assert.Equal(t, "First heading here", got[0].Text)
	assert.Equal(t, "Second heading here", got[1].Text)
	assert.Equal(t, "Third heading here", got[2].Text)
}

func TestCandidates_LengthBounds(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
		<h1>12345</h1>
		<h1>123456</h1>
		<h1>`+strings.Repeat("x", 100)+`</h1>
		<input type="checkbox" value="checkbox value long enough">
		<div contenteditable="false">Not editable at all</div>`)

	got := title.Candidates(doc, logger.NewNop())
	require.Len(t, got, 1)
	assert.Equal(t, "123456", got[0].Text)
}
