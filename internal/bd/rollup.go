package bd

import "github.com/joshharrison/beadview/internal/status"

// CountStatuses rolls a snapshot up into the counts the stats surface
// reports, using canonical statuses so vocabulary variants tally
// correctly.
func CountStatuses(tasks []Task) Counts {
	counts := Counts{Total: len(tasks)}
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, t := range tasks {
		switch status.Normalize(t.Status) {
		case status.Completed:
			counts.Completed++
		case status.InProgress:
			counts.InProgress++
		}
		if isReady(t, byID) {
			counts.Ready++
		}
	}
	return counts
}

// ReadyTasks filters a snapshot to the claimable tasks, preserving order.
func ReadyTasks(tasks []Task) []Task {
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	var ready []Task
	for _, t := range tasks {
		if isReady(t, byID) {
			ready = append(ready, t)
		}
	}
	return ready
}

// isReady: not started, and every dependency present in the snapshot is
// complete. References outside the snapshot do not block.
func isReady(t Task, byID map[string]Task) bool {
	switch status.Normalize(t.Status) {
	case status.Open, status.Ready:
	default:
		return false
	}
	for _, dep := range t.Dependencies {
		blocker, ok := byID[dep.DependsOnID]
		if !ok {
			continue
		}
		if status.Normalize(blocker.Status) != status.Completed {
			return false
		}
	}
	return true
}
