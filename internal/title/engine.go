// Package title infers the article title shown on an editor page.
//
// Per-platform selector rules are tried first and the first acceptable hit
// wins. Only when no rule matches does a confidence-scored scan of inputs,
// editable regions and headings run.
package title

import (
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

// Source identifies how a candidate was found.
type Source string

const (
	SourceSelectorMatch       Source = "selector_match"
	SourceInputTitleHeuristic Source = "input_title_heuristic"
	SourceInputTextHeuristic  Source = "input_text_heuristic"
	SourceEditableRegion      Source = "editable_region"
	SourceHeadingElement      Source = "heading_element"
)

// maxSelectorTitleLen is the exclusive upper bound on a selector hit's length.
const maxSelectorTitleLen = 200

// Candidate is a provisional title.
type Candidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	// Selector is set for selector matches.
	Selector string `json:"selector,omitempty"`
}

// Report describes one inference: the chosen candidate and, when the
// heuristic ran, every ranked candidate.
type Report struct {
	Origin     string      `json:"origin"`
	Platform   string      `json:"platform,omitempty"`
	Title      *Candidate  `json:"title,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Observer receives the source of each successful inference.
type Observer interface {
	ObserveTitle(source Source)
}

// Engine selects titles from documents. It is safe for concurrent use.
type Engine struct {
	rules    Rules
	log      logger.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the built-in selector table.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates an Engine with the default rules.
func NewEngine(log logger.Logger, opts ...Option) *Engine {
	e := &Engine{rules: DefaultRules(), log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's selector table.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Infer returns the most likely title of doc, whose page is served from
// hostname origin.
func (e *Engine) Infer(doc Document, origin string) (Candidate, bool) {
	r := e.Explain(doc, origin)
	if r.Title == nil {
		return Candidate{}, false
	}
	return *r.Title, true
}

// Explain runs the selector phase and, if it finds nothing, the heuristic
// phase, recording what was considered.
func (e *Engine) Explain(doc Document, origin string) Report {
	report := Report{Origin: origin}
	if p, ok := e.rules.Match(origin); ok {
		report.Platform = p.Name
	}

	if c, ok := e.bySelector(doc, e.rules.SelectorsFor(origin)); ok {
		report.Title = &c
		e.observe(c)
		return report
	}

	report.Candidates = Candidates(doc, e.log)
	if len(report.Candidates) > 0 {
		best := report.Candidates[0]
		report.Title = &best
		e.observe(best)
		return report
	}

	e.log.Debug("No title candidate found", logger.String("origin", origin))
	return report
}

func (e *Engine) bySelector(doc Document, selectors []string) (Candidate, bool) {
	for _, sel := range selectors {
		elements, err := doc.QueryAll(sel)
		if err != nil {
			e.log.Warn("Title selector failed", logger.String("selector", sel), logger.Error(err))
			continue
		}

		for _, el := range elements {
			text := readTitle(el)
			if n := utf8.RuneCountInString(text); n > 0 && n < maxSelectorTitleLen {
				e.log.Debug("Title found by selector", logger.String("selector", sel))
				return Candidate{Text: text, Confidence: 1, Source: SourceSelectorMatch, Selector: sel}, true
			}
		}
	}
	return Candidate{}, false
}

func (e *Engine) observe(c Candidate) {
	if e.observer != nil {
		e.observer.ObserveTitle(c.Source)
	}
}

// readTitle returns the trimmed value of input-like controls and the
// trimmed text of anything else.
func readTitle(el Element) string {
	if isInputLike(el) {
		return strings.TrimSpace(el.Value())
	}
	return strings.TrimSpace(el.Text())
}
