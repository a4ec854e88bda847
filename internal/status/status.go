// Package status maps the tracker's free-form status vocabulary onto the
// four canonical states the rest of the system reasons about.
package status

import "strings"

// Status is a canonical task state.
type Status string

const (
	Open       Status = "open"
	Ready      Status = "ready"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// Normalize maps a raw status string to its canonical state. It is total:
// every input, including the empty string, maps to exactly one state, and
// normalizing an already-canonical value is a no-op.
func Normalize(raw string) Status {
	switch strings.ToLower(raw) {
	case "closed", "complete", "completed":
		return Completed
	case "in_progress", "in-progress", "progress":
		return InProgress
	case "ready":
		return Ready
	default:
		return Open
	}
}

// Meaning resolves a raw status for equality-of-meaning comparison in the
// change detector. Unlike Normalize it passes unrecognized values through
// verbatim, so a genuinely novel status still reads as a transition while
// spelling variants of a known state ("in-progress" vs "in_progress") do
// not. Its token set is deliberately narrower than Normalize's; keep the
// two in their divergent forms.
func Meaning(raw string) string {
	switch strings.ToLower(raw) {
	case "", "open":
		return string(Open)
	case "closed", "completed":
		return string(Completed)
	case "in_progress", "in-progress":
		return string(InProgress)
	case "ready":
		return string(Ready)
	default:
		return raw
	}
}
