package rules

import (
	"bytes"
	"embed"
)

//go:embed defaults/*.rules
var defaultFS embed.FS

// DefaultSourceName is the source name reported for built-in rules
func DefaultSourceName(stage Stage) string {
	return "builtin:" + string(stage)
}

// DefaultContent returns the embedded System rule document for stage,
// or nil when the stage ships no defaults.
func DefaultContent(stage Stage) []byte {
	data, err := defaultFS.ReadFile("defaults/" + string(stage) + ".rules")
	if err != nil {
		return nil
	}
	return data
}

// Defaults parses the embedded System rules for stage
func Defaults(stage Stage) ([]*Rule, error) {
	content := DefaultContent(stage)
	if content == nil {
		return nil, nil
	}
	return ParseDocument(DefaultSourceName(stage), bytes.NewReader(content), OriginSystem)
}
