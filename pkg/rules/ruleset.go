package rules

import (
	"github.com/arthur-debert/textilize/pkg/errors"
)

// Stage names a pipeline stage that has its own rule set
type Stage string

const (
	StagePreprocess  Stage = "preprocess"
	StagePostprocess Stage = "postprocess"
)

// Stages lists every stage in pipeline order
func Stages() []Stage {
	return []Stage{StagePreprocess, StagePostprocess}
}

// ParseStage validates a stage name
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown stage %q", s).
		WithDetail(errors.DetailStage, s)
}

func (s Stage) String() string { return string(s) }

// RuleSet is an ordered collection of rules with at most one rule per Key
type RuleSet struct {
	stage Stage
	slots []*Rule
	index map[Key]int
}

// NewRuleSet returns an empty rule set for stage
func NewRuleSet(stage Stage) *RuleSet {
	return &RuleSet{
		stage: stage,
		index: make(map[Key]int),
	}
}

// Stage returns the stage the set belongs to
func (rs *RuleSet) Stage() Stage { return rs.stage }

// Len returns the number of rules in the set
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.slots)
}

// Insert adds rule to the set. When a rule with the same key is already
// present it is replaced in place and Insert reports true.
func (rs *RuleSet) Insert(rule *Rule) bool {
	key := rule.Key()
	if i, ok := rs.index[key]; ok {
		rs.slots[i] = rule
		return true
	}
	rs.index[key] = len(rs.slots)
	rs.slots = append(rs.slots, rule)
	return false
}

// InsertAll inserts rules in order and returns how many replaced an existing slot
func (rs *RuleSet) InsertAll(rules []*Rule) int {
	replaced := 0
	for _, r := range rules {
		if rs.Insert(r) {
			replaced++
		}
	}
	return replaced
}

// Get returns the rule occupying key's slot
func (rs *RuleSet) Get(key Key) (*Rule, bool) {
	i, ok := rs.index[key]
	if !ok {
		return nil, false
	}
	return rs.slots[i], true
}

// Rules returns the rules in application order
func (rs *RuleSet) Rules() []*Rule {
	if rs == nil {
		return nil
	}
	out := make([]*Rule, len(rs.slots))
	copy(out, rs.slots)
	return out
}

// Apply runs every rule over text in order, each rule seeing the output of
// the previous one. A nil set leaves text unchanged.
func (rs *RuleSet) Apply(text string) string {
	if rs == nil {
		return text
	}
	for _, r := range rs.slots {
		text = r.Apply(text)
	}
	return text
}
