// Package postprocess applies the postprocessing rule set to converter output
// one physical line at a time, so ^ and $ in patterns anchor per line.
package postprocess

import (
	"context"
	"io"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/rules"
)

// PostProcessor rewrites converted text line by line
type PostProcessor struct{}

// New returns a PostProcessor
func New() *PostProcessor {
	return &PostProcessor{}
}

// Lines splits text on \n, folding \r\n
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Apply rewrites every line of text with rs and rejoins them with \n
func (p *PostProcessor) Apply(ctx context.Context, text string, rs *rules.RuleSet) string {
	logger := logging.FromContext(ctx, "postprocess")

	lines := Lines(text)
	changed := 0
	for i, line := range lines {
		doc := rules.NewDocument(line)
		doc.Apply(rs, logger)
		if doc.Changed() > 0 {
			changed++
		}
		lines[i] = doc.Text()
	}

	logger.Debug().
		Int("lines", len(lines)).
		Int("rules", rs.Len()).
		Int("changedLines", changed).
		Msg("Postprocessed output")

	return strings.Join(lines, "\n")
}

// Process applies rs to text and writes the result to sink. The caller owns
// sink and releases it.
func (p *PostProcessor) Process(ctx context.Context, text string, rs *rules.RuleSet, sink io.Writer) error {
	out := p.Apply(ctx, text, rs)
	if _, err := io.WriteString(sink, out); err != nil {
		return errors.Wrap(err, errors.ErrIO, "writing output")
	}
	return nil
}
