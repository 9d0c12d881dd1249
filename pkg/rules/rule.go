package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
)

// Origin records whether a rule ships with textilize or comes from a user rule file
type Origin int

const (
	OriginSystem Origin = iota
	OriginUser
)

func (o Origin) String() string {
	switch o {
	case OriginSystem:
		return "system"
	case OriginUser:
		return "user"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// MarshalText renders the origin name in YAML and TOML listings
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Kind is the rewrite command of a rule
type Kind int

const (
	RemoveLiteral Kind = iota
	RemovePattern
	ReplaceLiteral
	ReplacePattern
)

// Command returns the keyword form used in rule files
func (k Kind) Command() string {
	switch k {
	case RemoveLiteral:
		return "REMOVE"
	case RemovePattern:
		return "REMOVE PATTERN"
	case ReplaceLiteral:
		return "REPLACE"
	case ReplacePattern:
		return "REPLACE PATTERN"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

func (k Kind) String() string { return k.Command() }

// MarshalText renders the command keyword in YAML and TOML listings
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.Command()), nil
}

// IsPattern reports whether the match operand is a regular expression
func (k Kind) IsPattern() bool {
	return k == RemovePattern || k == ReplacePattern
}

// IsRemove reports whether the command deletes its matches
func (k Kind) IsRemove() bool {
	return k == RemoveLiteral || k == RemovePattern
}

// Key identifies the slot a rule occupies in a RuleSet
type Key struct {
	Kind  Kind
	Match string
}

func (k Key) String() string {
	return k.Kind.Command() + " " + quote(k.Match)
}

// Rule is one parsed rewrite command. Rules are immutable once parsed.
type Rule struct {
	origin      Origin
	kind        Kind
	match       string
	replacement string
	pattern     *regexp.Regexp

	source string
	line   int
}

// NewRule builds a rule programmatically. Pattern kinds compile match as a
// regular expression.
func NewRule(origin Origin, kind Kind, match, replacement string) (*Rule, error) {
	if match == "" {
		return nil, errors.New(errors.ErrMalformedRule, "empty match operand")
	}
	r := &Rule{origin: origin, kind: kind, match: match}
	if !kind.IsRemove() {
		r.replacement = replacement
	}
	if kind.IsPattern() {
		re, err := regexp.Compile(match)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMalformedRule, "invalid pattern %q", match)
		}
		r.pattern = re
	}
	return r, nil
}

func (r *Rule) Origin() Origin      { return r.origin }
func (r *Rule) Kind() Kind          { return r.kind }
func (r *Rule) Match() string       { return r.match }
func (r *Rule) Replacement() string { return r.replacement }

// Source is the rule file the rule was read from, empty for programmatic rules
func (r *Rule) Source() string { return r.source }

// Line is the 1-based line number within Source
func (r *Rule) Line() int { return r.line }

// Key returns the identity used for overriding
func (r *Rule) Key() Key {
	return Key{Kind: r.kind, Match: r.match}
}

// Apply rewrites every occurrence of the rule's match in text.
// Remove kinds substitute the empty string.
func (r *Rule) Apply(text string) string {
	if r.pattern != nil {
		return r.pattern.ReplaceAllString(text, r.replacement)
	}
	return strings.ReplaceAll(text, r.match, r.replacement)
}

// String renders the rule back into rule file syntax
func (r *Rule) String() string {
	if r.kind.IsRemove() {
		return r.kind.Command() + " " + quote(r.match)
	}
	return r.kind.Command() + " " + quote(r.match) + " WITH " + quote(r.replacement)
}

func (r *Rule) withProvenance(origin Origin, source string, line int) *Rule {
	r.origin = origin
	r.source = source
	r.line = line
	return r
}

func quote(s string) string {
	if strings.Contains(s, `"`) {
		return s
	}
	return `"` + s + `"`
}
