package ui

import (
	"github.com/fatih/color"

	"github.com/joshharrison/beadview/internal/status"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
)

// StatusLabel returns a colored canonical status string.
func StatusLabel(s status.Status) string {
	switch s {
	case status.Completed:
		return Green(string(s))
	case status.InProgress:
		return Yellow(string(s))
	case status.Ready:
		return Cyan(string(s))
	default:
		return Dim(string(s))
	}
}

// StatusGlyph returns a one-character marker for a canonical status.
func StatusGlyph(s status.Status) string {
	switch s {
	case status.Completed:
		return Green("●")
	case status.InProgress:
		return Yellow("◐")
	case status.Ready:
		return Cyan("○")
	default:
		return Dim("·")
	}
}
