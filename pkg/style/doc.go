// Package style holds the terminal presentation used by the textilize CLI:
// colors, rule origin badges, unit status lines, and the decision whether
// to style output at all.
package style
