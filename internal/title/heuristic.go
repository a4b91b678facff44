package title

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

const (
	inputSelector    = `input[type="text"], input:not([type]), textarea`
	editableSelector = `[contenteditable="true"], [contenteditable=""]`
	headingSelector  = `h1, h2, .title, .article-title, [data-title]`
)

// Confidence scores per heuristic.
const (
	confidenceTitledInput    = 0.9
	confidenceTitledEditable = 0.8
	confidenceEditable       = 0.7
	confidenceHeading        = 0.6
	confidencePlainInput     = 0.5
)

// Bounds for heuristic text lengths, both exclusive.
const (
	minHeuristicLen = 5
	maxHeuristicLen = 100
)

// titleMarkers are the words that flag a field as a title field.
var titleMarkers = []string{"title", "标题"}

// Candidates scans doc for title-like inputs, editable regions and headings
// and returns them ranked by confidence. Ties keep discovery order.
func Candidates(doc Document, log logger.Logger) []Candidate {
	var out []Candidate

	for _, el := range query(doc, inputSelector, log) {
		value := strings.TrimSpace(el.Value())
		n := utf8.RuneCountInString(value)
		switch {
		case n > 0 && n < maxSelectorTitleLen && mentionsTitle(el, "placeholder", "id", "class"):
			out = append(out, Candidate{Text: value, Confidence: confidenceTitledInput, Source: SourceInputTitleHeuristic})
		case inHeuristicRange(n):
			out = append(out, Candidate{Text: value, Confidence: confidencePlainInput, Source: SourceInputTextHeuristic})
		}
	}

	for _, el := range query(doc, editableSelector, log) {
		text := strings.TrimSpace(el.Text())
		if !inHeuristicRange(utf8.RuneCountInString(text)) {
			continue
		}
		confidence := confidenceEditable
		if mentionsTitle(el, "id", "class") {
			confidence = confidenceTitledEditable
		}
		out = append(out, Candidate{Text: text, Confidence: confidence, Source: SourceEditableRegion})
	}

	for _, el := range query(doc, headingSelector, log) {
		text := strings.TrimSpace(el.Text())
		if inHeuristicRange(utf8.RuneCountInString(text)) {
			out = append(out, Candidate{Text: text, Confidence: confidenceHeading, Source: SourceHeadingElement})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})

	return out
}

func query(doc Document, selector string, log logger.Logger) []Element {
	elements, err := doc.QueryAll(selector)
	if err != nil {
		log.Warn("Heuristic selector failed", logger.String("selector", selector), logger.Error(err))
		return nil
	}
	return elements
}

func inHeuristicRange(n int) bool {
	return n > minHeuristicLen && n < maxHeuristicLen
}

// mentionsTitle reports whether any of the named attributes contains a
// title marker. Latin matching ignores case.
func mentionsTitle(el Element, attrs ...string) bool {
	for _, name := range attrs {
		v, ok := el.Attr(name)
		if !ok || v == "" {
			continue
		}
		v = strings.ToLower(v)
		for _, marker := range titleMarkers {
			if strings.Contains(v, marker) {
				return true
			}
		}
	}
	return false
}
