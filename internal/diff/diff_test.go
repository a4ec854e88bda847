package diff

import (
	"testing"

	"github.com/joshharrison/beadview/internal/bd"
)

func intp(v int) *int { return &v }

func TestDetect_FirstSightIsCreation(t *testing.T) {
	d := NewDetector()
	res := d.Detect([]bd.Task{
		{ID: "a", Title: "A", Updated: "t1"},
	})

	if !res.ChangedIDs["a"] {
		t.Error("first-seen timestamped task should be changed")
	}
	if res.Summaries["a"] != "created" {
		t.Errorf("expected summary 'created', got %q", res.Summaries["a"])
	}
}

func TestDetect_NoTimestampNeverFlagged(t *testing.T) {
	d := NewDetector()

	res := d.Detect([]bd.Task{{ID: "a", Title: "A"}})
	if len(res.ChangedIDs) != 0 {
		t.Errorf("task without timestamp flagged: %v", res.ChangedIDs)
	}

	// Same task mutates a field but still has no timestamp.
	res = d.Detect([]bd.Task{{ID: "a", Title: "renamed", Assignee: "sam"}})
	if len(res.ChangedIDs) != 0 {
		t.Errorf("task without timestamp flagged after field change: %v", res.ChangedIDs)
	}
}

func TestDetect_UnchangedTimestampNotFlagged(t *testing.T) {
	d := NewDetector()
	snap := []bd.Task{{ID: "a", Title: "A", Updated: "t1"}}
	d.Detect(snap)

	// Title differs, timestamp does not: timestamp is the ground truth.
	res := d.Detect([]bd.Task{{ID: "a", Title: "different", Updated: "t1"}})
	if len(res.ChangedIDs) != 0 {
		t.Errorf("unchanged timestamp flagged: %v", res.ChangedIDs)
	}
}

func TestDetect_SummaryPriorityOrderCapsAtTwo(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{
		{ID: "a", Title: "X", Status: "open", Priority: intp(2), Updated: "t1"},
	})

	// Status, assignee, priority, and title all change; only the first
	// two descriptors may appear.
	res := d.Detect([]bd.Task{
		{ID: "a", Title: "Y", Status: "ready", Assignee: "Bob", Priority: intp(1), Updated: "t2"},
	})

	if !res.ChangedIDs["a"] {
		t.Fatal("expected a to be changed")
	}
	want := "status: open → ready, assignee: none → Bob"
	if res.Summaries["a"] != want {
		t.Errorf("expected %q, got %q", want, res.Summaries["a"])
	}
}

func TestDetect_VocabularyShiftIsNotAStatusChange(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{
		{ID: "a", Title: "A", Status: "in-progress", Assignee: "sam", Updated: "t1"},
	})

	res := d.Detect([]bd.Task{
		{ID: "a", Title: "A", Status: "in_progress", Assignee: "kim", Updated: "t2"},
	})

	// Spelling change means the same thing, so the assignee leads the
	// summary.
	want := "assignee: sam → kim"
	if res.Summaries["a"] != want {
		t.Errorf("expected %q, got %q", want, res.Summaries["a"])
	}
}

func TestDetect_NovelStatusIsATransition(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{{ID: "a", Title: "A", Status: "open", Updated: "t1"}})

	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Status: "deferred", Updated: "t2"}})
	want := "status: open → deferred"
	if res.Summaries["a"] != want {
		t.Errorf("expected %q, got %q", want, res.Summaries["a"])
	}
}

func TestDetect_PriorityDescriptor(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})

	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Priority: intp(1), Updated: "t2"}})
	want := "priority: P— → P1"
	if res.Summaries["a"] != want {
		t.Errorf("expected %q, got %q", want, res.Summaries["a"])
	}

	// Priority disappearing is not a reportable difference.
	res = d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t3"}})
	if res.Summaries["a"] != "" {
		t.Errorf("expected empty summary, got %q", res.Summaries["a"])
	}
}

func TestDetect_TimestampChangeWithoutFieldDiff(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})

	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t2"}})
	if !res.ChangedIDs["a"] {
		t.Error("timestamp change alone should flag the task")
	}
	if res.Summaries["a"] != "" {
		t.Errorf("expected empty summary, got %q", res.Summaries["a"])
	}
}

func TestDetect_DisappearedTasksAreForgotten(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{
		{ID: "a", Title: "A", Updated: "t1"},
		{ID: "b", Title: "B", Updated: "t1"},
	})

	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})
	if len(res.ChangedIDs) != 0 {
		t.Errorf("disappearance should not be reported: %v", res.ChangedIDs)
	}

	// b reappearing reads as created again: the detector forgot it.
	res = d.Detect([]bd.Task{
		{ID: "a", Title: "A", Updated: "t1"},
		{ID: "b", Title: "B", Updated: "t2"},
	})
	if res.Summaries["b"] != "created" {
		t.Errorf("expected reappearing task to read as created, got %q", res.Summaries["b"])
	}
}

func TestDetect_TimestampAppearingLater(t *testing.T) {
	d := NewDetector()
	// Tracked without a timestamp first.
	d.Detect([]bd.Task{{ID: "a", Title: "A"}})

	// A timestamp appears: previous value did not exist, so this is not a
	// change, and the task was already seen so it is not a creation.
	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})
	if len(res.ChangedIDs) != 0 {
		t.Errorf("timestamp appearing on a known task flagged: %v", res.ChangedIDs)
	}

	// From here on, timestamp movement is a change.
	res = d.Detect([]bd.Task{{ID: "a", Title: "A", Assignee: "sam", Updated: "t2"}})
	if !res.ChangedIDs["a"] {
		t.Error("expected change once both timestamps exist and differ")
	}
	if want := "assignee: none → sam"; res.Summaries["a"] != want {
		t.Errorf("expected %q, got %q", want, res.Summaries["a"])
	}
}

func TestDetect_Reset(t *testing.T) {
	d := NewDetector()
	d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})
	d.Reset()

	res := d.Detect([]bd.Task{{ID: "a", Title: "A", Updated: "t1"}})
	if res.Summaries["a"] != "created" {
		t.Errorf("after reset expected 'created', got %q", res.Summaries["a"])
	}
}
