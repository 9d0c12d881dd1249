package rules

import (
	"github.com/rs/zerolog"
)

// Document is the text buffer one pipeline unit threads through a stage
type Document struct {
	text    string
	changed int
}

// NewDocument wraps text for rule application
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the current content
func (d *Document) Text() string { return d.text }

// Changed returns how many rule applications modified the text so far
func (d *Document) Changed() int { return d.changed }

// Apply runs the rule set over the document, tracing every rule that changed it
func (d *Document) Apply(rs *RuleSet, logger zerolog.Logger) {
	for _, r := range rs.Rules() {
		next := r.Apply(d.text)
		if next == d.text {
			continue
		}
		d.changed++
		d.text = next
		if e := logger.Trace(); e.Enabled() {
			e.Str("rule", r.String()).
				Str("origin", r.Origin().String()).
				Str("source", r.Source()).
				Int("line", r.Line()).
				Msg("Rule applied")
		}
	}
}
