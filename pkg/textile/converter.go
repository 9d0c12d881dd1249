package textile

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/preprocess"
	"github.com/beevik/etree"
)

const fragmentRoot = "textilize-fragment"

// Converter renders preprocessed HTML fragments as Textile
type Converter struct {
	markers preprocess.Markers
}

// New returns a converter recognizing the given line markers
func New(markers preprocess.Markers) *Converter {
	if markers.Element == "" {
		markers = preprocess.DefaultMarkers
	}
	return &Converter{markers: markers}
}

// Convert parses input and renders it. Blocks are separated by a blank line
// and the output ends with a newline; empty input renders as "".
func (c *Converter) Convert(ctx context.Context, input string) (string, error) {
	logger := logging.FromContext(ctx, "textile")

	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Permissive: true,
		AutoClose:  xml.HTMLAutoClose,
	}
	if err := doc.ReadFromString("<" + fragmentRoot + ">" + input + "</" + fragmentRoot + ">"); err != nil {
		return "", errors.Wrap(err, errors.ErrConversion, "parsing fragment")
	}

	root := doc.Root()
	if root == nil {
		return "", errors.New(errors.ErrConversion, "fragment has no root element")
	}

	r := &renderer{markers: c.markers}
	blocks := r.blocks(root)

	logger.Debug().Int("blocks", len(blocks)).Msg("Rendered textile")

	if len(blocks) == 0 {
		return "", nil
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}
