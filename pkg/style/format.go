package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output stream
	FormatAuto Format = iota
	// FormatTerminal renders colors and styling
	FormatTerminal
	// FormatText renders plain text
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat parses a --color value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal", "always":
		return FormatTerminal, nil
	case "text", "plain", "never":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown color mode: %s", s)
	}
}

// DetectFormat determines the output format from NO_COLOR, the stream and
// the terminal color profile
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.NewOutput(output).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for output
func Resolve(f Format, output *os.File) Format {
	if f == FormatAuto {
		return DetectFormat(output)
	}
	return f
}

// Apply configures pterm and lipgloss for f, which must be concrete
func Apply(f Format) {
	if f == FormatText {
		pterm.DisableStyling()
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	pterm.EnableStyling()
	lipgloss.SetColorProfile(termenv.ANSI256)
}
