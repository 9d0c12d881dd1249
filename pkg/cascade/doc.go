// Package cascade resolves the rule set that applies to an input location.
//
// Rule files are looked up in the input's directory and every ancestor up to
// the configuration root. Sources are applied from the most general (the
// built-in System rules, then the root) to the most specific (the input's own
// directory), so a rule in a deeper directory overrides a rule with the same
// key further up while keeping its position in the set.
//
// Where rule files live is abstracted by Lookup. FSLookup walks an afero
// filesystem; MapLookup serves an in-memory chain for tests.
package cascade
