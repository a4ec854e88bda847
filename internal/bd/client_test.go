package bd

import (
	"testing"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "")
	if c.BdBin != "bd" {
		t.Errorf("expected default bd binary 'bd', got %q", c.BdBin)
	}
	if c.DbPath != "" {
		t.Errorf("expected empty db path, got %q", c.DbPath)
	}
}

func TestBaseArgs_WithDB(t *testing.T) {
	c := NewClient("bd", "/my/db")
	args := c.baseArgs()
	if len(args) != 2 || args[0] != "--db" || args[1] != "/my/db" {
		t.Errorf("expected [--db /my/db], got %v", args)
	}
}

func TestBaseArgs_WithoutDB(t *testing.T) {
	c := NewClient("bd", "")
	if args := c.baseArgs(); len(args) != 0 {
		t.Errorf("expected empty args, got %v", args)
	}
}

func TestParseExportLine_ObjectDeps(t *testing.T) {
	line := `{"id":"bv-2","title":"Wire the API","status":"in_progress","assignee":"sam",` +
		`"priority":1,"issue_type":"feature","updated_at":"2025-11-02T10:00:00Z",` +
		`"dependencies":[{"depends_on_id":"bv-1","type":"blocks"}]}`

	task, ok := parseExportLine(line)
	if !ok {
		t.Fatal("expected record to parse")
	}
	if task.ID != "bv-2" || task.Title != "Wire the API" {
		t.Errorf("unexpected identity fields: %+v", task)
	}
	if task.Priority == nil || *task.Priority != 1 {
		t.Errorf("expected priority 1, got %v", task.Priority)
	}
	if len(task.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %v", task.Dependencies)
	}
	if d := task.Dependencies[0]; d.DependsOnID != "bv-1" || d.Type != DepBlocks {
		t.Errorf("unexpected dependency: %+v", d)
	}
}

func TestParseExportLine_StringDeps(t *testing.T) {
	line := `{"id":"bv-3","title":"Docs","dependencies":["related:bv-1","bv-2"]}`

	task, ok := parseExportLine(line)
	if !ok {
		t.Fatal("expected record to parse")
	}
	if len(task.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %v", task.Dependencies)
	}
	if d := task.Dependencies[0]; d.DependsOnID != "bv-1" || d.Type != DepRelated {
		t.Errorf("expected typed dep bv-1/related, got %+v", d)
	}
	if d := task.Dependencies[1]; d.DependsOnID != "bv-2" || d.Type != DepBlocks {
		t.Errorf("expected bare dep to default to blocks, got %+v", d)
	}
}

func TestParseExportLine_MissingID(t *testing.T) {
	if _, ok := parseExportLine(`{"title":"no id"}`); ok {
		t.Error("expected record without id to be rejected")
	}
}

func TestParseExportLine_NoPriority(t *testing.T) {
	task, ok := parseExportLine(`{"id":"bv-4","title":"T"}`)
	if !ok {
		t.Fatal("expected record to parse")
	}
	if task.Priority != nil {
		t.Errorf("expected nil priority, got %v", task.Priority)
	}
}

func TestParseStats(t *testing.T) {
	out := `
Project Statistics

  Total Issues:  18
  Ready to Work: 5
  In Progress:   2
  Closed:        11
`
	counts := parseStats(out)
	if counts.Total != 18 || counts.Ready != 5 || counts.InProgress != 2 || counts.Completed != 11 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
