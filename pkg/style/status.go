package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status of a finished unit or checked file
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// StatusStyle returns the pterm style for a status label
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

func statusLabel(status Status) string {
	switch status {
	case StatusSuccess:
		return " ok "
	case StatusError:
		return "FAIL"
	default:
		return "skip"
	}
}

// StatusLine renders "<label> name" with an optional detail after a colon
func StatusLine(status Status, name, detail string) string {
	line := fmt.Sprintf("%s %s", StatusStyle(status).Sprint(statusLabel(status)), name)
	if detail != "" {
		line += ": " + detail
	}
	return line
}

// Summary renders the closing count line of a batch
func Summary(succeeded, failed int) string {
	text := fmt.Sprintf("%d succeeded, %d failed", succeeded, failed)
	if failed > 0 {
		return pterm.Error.Prefix.Style.Sprint(" ! ") + " " + text
	}
	return pterm.Success.Prefix.Style.Sprint(" ✓ ") + " " + text
}
