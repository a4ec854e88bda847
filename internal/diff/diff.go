// Package diff detects what changed between successive task snapshots.
package diff

import (
	"fmt"
	"strings"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/status"
)

// maxDescriptors caps how many field changes one summary mentions.
const maxDescriptors = 2

// Result is the outcome of one snapshot comparison.
type Result struct {
	// ChangedIDs holds the ids whose modification timestamp moved since
	// the previous snapshot (or that appeared for the first time with a
	// timestamp).
	ChangedIDs map[string]bool

	// Summaries maps each changed id to a short human-readable summary.
	// A summary can be empty: the timestamp is the ground truth for
	// "something changed" even when no tracked field differs.
	Summaries map[string]string
}

// Detector remembers the previous snapshot and reports changes against it.
// One Detector belongs to one live view; it must not be shared between
// concurrent callers. Construct with NewDetector, never share globally.
type Detector struct {
	prevUpdated map[string]string
	prevTasks   map[string]bd.Task
}

// NewDetector creates a Detector with no history: the first snapshot it
// sees reports every timestamped task as created.
func NewDetector() *Detector {
	return &Detector{
		prevUpdated: make(map[string]string),
		prevTasks:   make(map[string]bd.Task),
	}
}

// Reset drops all remembered state, as if the detector were new.
func (d *Detector) Reset() {
	d.prevUpdated = make(map[string]string)
	d.prevTasks = make(map[string]bd.Task)
}

// Detect compares tasks against the previous snapshot and then replaces
// the detector's memory with this snapshot wholesale. Tasks that have
// disappeared are forgotten, not reported — deletion detection is out of
// scope. Tasks without a modification timestamp are never flagged but are
// still tracked for future comparisons.
func (d *Detector) Detect(tasks []bd.Task) Result {
	res := Result{
		ChangedIDs: make(map[string]bool),
		Summaries:  make(map[string]string),
	}

	for _, t := range tasks {
		if t.Updated == "" {
			continue
		}
		prev, seen := d.prevTasks[t.ID]
		if !seen {
			res.ChangedIDs[t.ID] = true
			res.Summaries[t.ID] = "created"
			continue
		}
		prevUpdated := d.prevUpdated[t.ID]
		if prevUpdated == "" || prevUpdated == t.Updated {
			continue
		}
		res.ChangedIDs[t.ID] = true
		res.Summaries[t.ID] = summarize(prev, t)
	}

	next := make(map[string]bd.Task, len(tasks))
	nextUpdated := make(map[string]string, len(tasks))
	for _, t := range tasks {
		next[t.ID] = t
		nextUpdated[t.ID] = t.Updated
	}
	d.prevTasks = next
	d.prevUpdated = nextUpdated

	return res
}

// summarize lists the first maxDescriptors field changes in fixed priority
// order: status, assignee, priority, title, description.
func summarize(prev, curr bd.Task) string {
	var parts []string
	add := func(s string) bool {
		parts = append(parts, s)
		return len(parts) >= maxDescriptors
	}

	// Compare by meaning so a vocabulary shift ("in-progress" becoming
	// "in_progress") does not read as a status transition.
	prevStatus := status.Meaning(prev.Status)
	currStatus := status.Meaning(curr.Status)
	if prevStatus != currStatus {
		if add(fmt.Sprintf("status: %s → %s", prevStatus, currStatus)) {
			return strings.Join(parts, ", ")
		}
	}

	if prev.Assignee != curr.Assignee {
		if add(fmt.Sprintf("assignee: %s → %s", orNone(prev.Assignee), orNone(curr.Assignee))) {
			return strings.Join(parts, ", ")
		}
	}

	if curr.Priority != nil && (prev.Priority == nil || *prev.Priority != *curr.Priority) {
		was := "—"
		if prev.Priority != nil {
			was = fmt.Sprintf("%d", *prev.Priority)
		}
		if add(fmt.Sprintf("priority: P%s → P%d", was, *curr.Priority)) {
			return strings.Join(parts, ", ")
		}
	}

	if prev.Title != curr.Title {
		if add("title updated") {
			return strings.Join(parts, ", ")
		}
	}

	if prev.Description != curr.Description {
		add("description updated")
	}

	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
