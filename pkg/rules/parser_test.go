package rules_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name            string
		line            string
		wantKind        rules.Kind
		wantMatch       string
		wantReplacement string
	}{
		{
			name:      "remove_literal_quoted",
			line:      `REMOVE "&shy;"`,
			wantKind:  rules.RemoveLiteral,
			wantMatch: "&shy;",
		},
		{
			name:      "remove_literal_bare",
			line:      `REMOVE <wbr/>`,
			wantKind:  rules.RemoveLiteral,
			wantMatch: "<wbr/>",
		},
		{
			name:      "remove_pattern",
			line:      `REMOVE PATTERN "[ \t]+$"`,
			wantKind:  rules.RemovePattern,
			wantMatch: `[ \t]+$`,
		},
		{
			name:            "replace_literal_quoted",
			line:            `REPLACE "&nbsp;" WITH " "`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "&nbsp;",
			wantReplacement: " ",
		},
		{
			name:            "replace_literal_bare",
			line:            `REPLACE &rsquo; WITH '`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "&rsquo;",
			wantReplacement: "'",
		},
		{
			name:            "replace_with_empty_replacement",
			line:            `REPLACE "x" WITH ""`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "x",
			wantReplacement: "",
		},
		{
			name:            "quoted_first_operand_containing_separator",
			line:            `REPLACE "a WITH b" WITH "c"`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "a WITH b",
			wantReplacement: "c",
		},
		{
			name:            "bare_operand_splits_at_first_separator",
			line:            `REPLACE a WITH b WITH c`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "a",
			wantReplacement: "b WITH c",
		},
		{
			name:            "replace_pattern_with_group",
			line:            `REPLACE PATTERN "<(br|hr)\s*>" WITH "<$1/>"`,
			wantKind:        rules.ReplacePattern,
			wantMatch:       `<(br|hr)\s*>`,
			wantReplacement: "<$1/>",
		},
		{
			name:            "inner_quotes_survive",
			line:            `REPLACE "&quot;" WITH """`,
			wantKind:        rules.ReplaceLiteral,
			wantMatch:       "&quot;",
			wantReplacement: `"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := rules.ParseLine(tt.line)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, rule.Kind())
			assert.Equal(t, tt.wantMatch, rule.Match())
			assert.Equal(t, tt.wantReplacement, rule.Replacement())
			assert.Equal(t, rules.OriginUser, rule.Origin())
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantMsg string
	}{
		{"missing_with", `REPLACE "x" "y"`, "missing WITH"},
		{"missing_with_bare", `REPLACE x y`, "missing WITH"},
		{"unknown_command", `SUBSTITUTE "x" WITH "y"`, "unknown command"},
		{"lowercase_command", `replace "x" WITH "y"`, "unknown command"},
		{"unterminated_first_operand", `REPLACE "x WITH y`, "unterminated"},
		{"unterminated_second_operand", `REPLACE "x" WITH "y`, "unterminated"},
		{"unterminated_remove", `REMOVE "x`, "unterminated"},
		{"lone_quote", `REMOVE "`, "unterminated"},
		{"empty_match", `REMOVE ""`, "empty match"},
		{"bad_pattern", `REMOVE PATTERN "([a-z"`, "invalid pattern"},
		{"text_between_operand_and_separator", `REPLACE "x" junk WITH "y"`, "unexpected text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := rules.ParseLine(tt.line)
			require.Error(t, err)
			assert.Nil(t, rule)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedRule), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, tt.line, errors.GetErrorDetails(err)[errors.DetailText])
		})
	}
}

func TestParseDocument(t *testing.T) {
	doc := strings.Join([]string{
		"# typographic entities",
		"",
		`REPLACE "&lsquo;" WITH "'"`,
		"   ",
		`  REPLACE "&rsquo;" WITH "'"  `,
		`REMOVE PATTERN "\s+$"`,
	}, "\n")

	parsed, err := rules.ParseDocument("docs/.textilize-pre.rules", strings.NewReader(doc), rules.OriginUser)
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, "&lsquo;", parsed[0].Match())
	assert.Equal(t, 3, parsed[0].Line())
	assert.Equal(t, "&rsquo;", parsed[1].Match())
	assert.Equal(t, 5, parsed[1].Line())
	assert.Equal(t, 6, parsed[2].Line())
	for _, r := range parsed {
		assert.Equal(t, "docs/.textilize-pre.rules", r.Source())
		assert.Equal(t, rules.OriginUser, r.Origin())
	}
}

func TestParseDocument_OriginPropagates(t *testing.T) {
	parsed, err := rules.ParseDocument("builtin", strings.NewReader(`REMOVE "x"`), rules.OriginSystem)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, rules.OriginSystem, parsed[0].Origin())
}

func TestParseDocument_MalformedFailsWholeDocument(t *testing.T) {
	doc := "REPLACE \"a\" WITH \"b\"\n\nREPLACE \"x\" \"y\"\nREMOVE \"z\"\n"

	parsed, err := rules.ParseDocument("site.rules", strings.NewReader(doc), rules.OriginUser)
	require.Error(t, err)
	assert.Nil(t, parsed)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedRule))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "site.rules", details[errors.DetailPath])
	assert.Equal(t, 3, details[errors.DetailLine])
	assert.Equal(t, `REPLACE "x" "y"`, details[errors.DetailText])
	assert.Contains(t, err.Error(), "site.rules:3")
}

func TestParseDocument_Empty(t *testing.T) {
	parsed, err := rules.ParseDocument("empty", strings.NewReader("# only comments\n\n"), rules.OriginUser)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestRuleString_RoundTrips(t *testing.T) {
	lines := []string{
		`REMOVE "&shy;"`,
		`REMOVE PATTERN "[ \t]+$"`,
		`REPLACE "&nbsp;" WITH " "`,
		`REPLACE PATTERN "<(br|hr)>" WITH "<$1/>"`,
	}
	for _, line := range lines {
		rule, err := rules.ParseLine(line)
		require.NoError(t, err)
		assert.Equal(t, line, rule.String())

		again, err := rules.ParseLine(rule.String())
		require.NoError(t, err)
		assert.Equal(t, rule.Key(), again.Key())
	}
}
