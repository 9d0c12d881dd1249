package cascade

import (
	"context"

	"github.com/arthur-debert/textilize/pkg/rules"
)

// Source is one stage rule document found at a location
type Source struct {
	// Location is the directory the source belongs to, empty for built-in rules
	Location string
	// Path names the document in diagnostics
	Path    string
	Origin  rules.Origin
	Content []byte
}

// Lookup finds the rule source for a stage at one location. It returns the
// source (nil when the location has none) and the next more general
// location, or "" when the walk is done.
type Lookup interface {
	Lookup(ctx context.Context, location string, stage rules.Stage) (*Source, string, error)
}

// LookupFunc adapts a function to Lookup
type LookupFunc func(ctx context.Context, location string, stage rules.Stage) (*Source, string, error)

func (f LookupFunc) Lookup(ctx context.Context, location string, stage rules.Stage) (*Source, string, error) {
	return f(ctx, location, stage)
}

// MapLookup serves sources from memory. Parents maps each location to its
// more general neighbour; locations missing from Parents end the walk.
type MapLookup struct {
	Parents map[string]string
	Sources map[string]map[rules.Stage]string
}

// NewMapLookup returns an empty in-memory lookup
func NewMapLookup() *MapLookup {
	return &MapLookup{
		Parents: make(map[string]string),
		Sources: make(map[string]map[rules.Stage]string),
	}
}

// Chain registers locations from most specific to most general
func (m *MapLookup) Chain(locations ...string) *MapLookup {
	for i, loc := range locations {
		if i+1 < len(locations) {
			m.Parents[loc] = locations[i+1]
		} else if _, ok := m.Parents[loc]; !ok {
			m.Parents[loc] = ""
		}
	}
	return m
}

// Set stores the rule document for stage at location
func (m *MapLookup) Set(location string, stage rules.Stage, content string) *MapLookup {
	if m.Sources[location] == nil {
		m.Sources[location] = make(map[rules.Stage]string)
	}
	m.Sources[location][stage] = content
	return m
}

func (m *MapLookup) Lookup(_ context.Context, location string, stage rules.Stage) (*Source, string, error) {
	var src *Source
	if content, ok := m.Sources[location][stage]; ok {
		src = &Source{
			Location: location,
			Path:     location + "#" + string(stage),
			Origin:   rules.OriginUser,
			Content:  []byte(content),
		}
	}
	return src, m.Parents[location], nil
}
