// Package rules implements the textilize rewrite rule language.
//
// A rule file holds one command per line. Blank lines and lines starting
// with # are ignored:
//
//	# normalize typographic quotes
//	REPLACE "&lsquo;" WITH "'"
//	REPLACE "&rsquo;" WITH "'"
//	REMOVE "&shy;"
//	REPLACE PATTERN "<(br|hr)\s*>" WITH "<$1/>"
//	REMOVE PATTERN "[ \t]+$"
//
// Operands may be wrapped in double quotes, which are stripped. Literal
// commands replace every occurrence of the match text; PATTERN commands
// use Go regexp syntax and may reference groups ($1) in the replacement.
//
// # Rule Identity
//
// A rule is identified by its Key, the pair of command kind and match text.
// A RuleSet holds at most one rule per key. Inserting a rule whose key is
// already present replaces the earlier rule at its original position, which
// is how more specific rule files override more general ones.
//
// Each pipeline stage (preprocess, postprocess) has its own RuleSet. The
// built-in System rules for each stage are embedded from defaults/.
package rules
