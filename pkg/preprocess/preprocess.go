package preprocess

import (
	"context"
	"io"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/rules"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Options configures a Preprocessor
type Options struct {
	// RootWrap, when set, wraps the fragment in <RootWrap>...</RootWrap>
	RootWrap string

	Markers Markers

	// Encoding is a WHATWG encoding label; empty means UTF-8 input
	Encoding string
}

// Preprocessor assembles line records into converter input
type Preprocessor struct {
	opts     Options
	decoding encoding.Encoding
}

// New validates opts and returns a Preprocessor
func New(opts Options) (*Preprocessor, error) {
	opts.Markers = opts.Markers.orDefault()

	p := &Preprocessor{opts: opts}
	if opts.Encoding != "" {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "unknown input encoding %q", opts.Encoding)
		}
		p.decoding = enc
	}
	return p, nil
}

// Markers returns the marker format in use
func (p *Preprocessor) Markers() Markers {
	return p.opts.Markers
}

// Assemble joins records into one marker annotated line, wrapped in the root
// element when configured. No records yield the empty string.
func (p *Preprocessor) Assemble(records []LineRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	if p.opts.RootWrap != "" {
		b.WriteString("<" + p.opts.RootWrap + ">")
	}
	for i, rec := range records {
		b.WriteString(p.opts.Markers.Format(rec.Number))
		b.WriteString(rec.Content)
		b.WriteString(terminator(records, i))
	}
	if p.opts.RootWrap != "" {
		b.WriteString("</" + p.opts.RootWrap + ">")
	}
	return b.String()
}

// Process reads the fragment from r, assembles it and applies rs once.
// An input with no non-blank lines produces "" without applying rules.
func (p *Preprocessor) Process(ctx context.Context, r io.Reader, rs *rules.RuleSet) (string, error) {
	logger := logging.FromContext(ctx, "preprocess")

	if p.decoding != nil {
		r = transform.NewReader(r, p.decoding.NewDecoder())
	}

	records, err := Records(r)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "reading source")
	}
	if len(records) == 0 {
		logger.Debug().Msg("Source has no content lines")
		return "", nil
	}

	doc := rules.NewDocument(p.Assemble(records))
	doc.Apply(rs, logger)

	logger.Debug().
		Int("lines", len(records)).
		Int("rules", rs.Len()).
		Int("changed", doc.Changed()).
		Msg("Preprocessed source")

	return doc.Text(), nil
}
