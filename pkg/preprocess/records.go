package preprocess

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// LineRecord is one retained source line
type LineRecord struct {
	// Number is the 1-based physical line number, blank lines included
	Number  int
	Content string
}

// IsLeadingElement reports whether the line starts with markup
func (r LineRecord) IsLeadingElement() bool {
	return strings.HasPrefix(strings.TrimSpace(r.Content), "<")
}

// IsTrailingElement reports whether the line ends with markup
func (r LineRecord) IsTrailingElement() bool {
	return strings.HasSuffix(strings.TrimSpace(r.Content), ">")
}

// Records splits r into trimmed, non-blank lines numbered by physical position
func Records(r io.Reader) ([]LineRecord, error) {
	var records []LineRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		content := strings.TrimSpace(scanner.Text())
		if content == "" {
			continue
		}
		records = append(records, LineRecord{Number: n, Content: content})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Markers names the line marker element and its number attribute
type Markers struct {
	Element   string
	Attribute string
}

// DefaultMarkers produces <line n="N"/>
var DefaultMarkers = Markers{Element: "line", Attribute: "n"}

// Format renders the marker for line n
func (m Markers) Format(n int) string {
	return "<" + m.Element + " " + m.Attribute + `="` + strconv.Itoa(n) + `"/>`
}

func (m Markers) orDefault() Markers {
	if m.Element == "" {
		m.Element = DefaultMarkers.Element
	}
	if m.Attribute == "" {
		m.Attribute = DefaultMarkers.Attribute
	}
	return m
}

// terminator decides what follows record i
func terminator(records []LineRecord, i int) string {
	if records[i].IsTrailingElement() {
		return ""
	}
	if i+1 < len(records) && records[i+1].IsLeadingElement() {
		return ""
	}
	return " "
}
