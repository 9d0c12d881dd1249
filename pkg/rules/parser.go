package rules

import (
	"bufio"
	"io"
	"strings"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
)

const separator = " WITH "

// Prefixes are tested in this order; the PATTERN forms must win over their
// literal counterparts.
var commands = []struct {
	prefix string
	kind   Kind
}{
	{"REMOVE PATTERN ", RemovePattern},
	{"REMOVE ", RemoveLiteral},
	{"REPLACE PATTERN ", ReplacePattern},
	{"REPLACE ", ReplaceLiteral},
}

// ParseLine parses a single trimmed, non-comment rule line. The returned
// rule has OriginUser and no source.
func ParseLine(line string) (*Rule, error) {
	for _, cmd := range commands {
		if !strings.HasPrefix(line, cmd.prefix) {
			continue
		}
		operands := line[len(cmd.prefix):]

		var match, replacement string
		var err error
		if cmd.kind.IsRemove() {
			match, err = parseOperand(operands)
		} else {
			match, replacement, err = splitOperands(operands)
		}
		if err != nil {
			return nil, malformed(err, line)
		}

		rule, err := NewRule(OriginUser, cmd.kind, match, replacement)
		if err != nil {
			return nil, malformed(err, line)
		}
		return rule, nil
	}

	return nil, errors.Newf(errors.ErrMalformedRule, "unknown command in %q", line).
		WithDetail(errors.DetailText, line)
}

// ParseDocument parses every rule in r. Blank lines and lines starting with
// # are skipped. The first malformed line fails the whole document.
func ParseDocument(name string, r io.Reader, origin Origin) ([]*Rule, error) {
	logger := logging.GetLogger("rules.parser")

	var parsed []*Rule
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMalformedRule, "%s:%d", name, lineNo).
				WithDetail(errors.DetailPath, name).
				WithDetail(errors.DetailLine, lineNo).
				WithDetail(errors.DetailText, line)
		}
		parsed = append(parsed, rule.withProvenance(origin, name, lineNo))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "reading rule file %s", name).
			WithDetail(errors.DetailPath, name)
	}

	logger.Trace().
		Str("source", name).
		Str("origin", origin.String()).
		Int("rules", len(parsed)).
		Msg("Parsed rule document")

	return parsed, nil
}

// splitOperands separates the two operands of a REPLACE command
func splitOperands(operands string) (string, string, error) {
	var first, rest string

	if strings.HasPrefix(operands, `"`) {
		end := strings.Index(operands[1:], `"`)
		if end < 0 {
			return "", "", errors.New(errors.ErrMalformedRule, "unterminated quoted operand")
		}
		first = operands[1 : end+1]
		rest = operands[end+2:]

		idx := strings.Index(rest, separator)
		if idx < 0 {
			return "", "", errors.New(errors.ErrMalformedRule, "missing WITH separator")
		}
		if strings.TrimSpace(rest[:idx]) != "" {
			return "", "", errors.Newf(errors.ErrMalformedRule, "unexpected text %q after quoted operand", strings.TrimSpace(rest[:idx]))
		}
		rest = rest[idx+len(separator):]
	} else {
		idx := strings.Index(operands, separator)
		if idx < 0 {
			return "", "", errors.New(errors.ErrMalformedRule, "missing WITH separator")
		}
		first = strings.TrimSpace(operands[:idx])
		rest = operands[idx+len(separator):]
	}

	second, err := parseOperand(rest)
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

// parseOperand strips the outer quotes of a single trailing operand
func parseOperand(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	if len(s) < 2 || !strings.HasSuffix(s, `"`) {
		return "", errors.New(errors.ErrMalformedRule, "unterminated quoted operand")
	}
	return s[1 : len(s)-1], nil
}

func malformed(err error, line string) error {
	if tErr, ok := err.(*errors.TextilizeError); ok && tErr.Code == errors.ErrMalformedRule {
		return tErr.WithDetail(errors.DetailText, line)
	}
	return errors.Wrap(err, errors.ErrMalformedRule, "malformed rule").WithDetail(errors.DetailText, line)
}
