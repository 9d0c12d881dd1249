package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/textilize/pkg/rules"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Italic(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SystemBadgeStyle = lipgloss.NewStyle().
				Foreground(SystemColor).
				Bold(true)

	UserBadgeStyle = lipgloss.NewStyle().
			Foreground(UserColor).
			Bold(true)
)

// OriginBadge renders the origin of a rule as a fixed-width label
func OriginBadge(origin rules.Origin) string {
	label := fmt.Sprintf("%-6s", origin.String())
	if origin == rules.OriginSystem {
		return SystemBadgeStyle.Render(label)
	}
	return UserBadgeStyle.Render(label)
}

// Title renders a section heading
func Title(s string) string {
	return TitleStyle.Render(s)
}

// Muted renders secondary text such as rule provenance
func Muted(s string) string {
	return MutedStyle.Render(s)
}

// Path renders a file path
func Path(s string) string {
	return PathStyle.Render(s)
}
