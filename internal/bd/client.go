package bd

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Client wraps the bd CLI binary for task operations.
type Client struct {
	BdBin  string // path to bd binary (default: "bd")
	DbPath string // --db flag value (optional)
}

// NewClient creates a Client using the given bd binary path and database path.
func NewClient(bdBin, dbPath string) *Client {
	if bdBin == "" {
		bdBin = "bd"
	}
	return &Client{BdBin: bdBin, DbPath: dbPath}
}

func (c *Client) baseArgs() []string {
	if c.DbPath != "" {
		return []string{"--db", c.DbPath}
	}
	return nil
}

func (c *Client) run(args ...string) ([]byte, error) {
	all := append(c.baseArgs(), args...)
	cmd := exec.Command(c.BdBin, all...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("bd %s: %w\n%s", strings.Join(args, " "), err, string(out))
	}
	return out, nil
}

// AllTasks returns every task in the workspace, including dependency edges,
// via bd export (JSONL). Lines that are not valid JSON are skipped; the
// export stream can interleave progress noise with records.
func (c *Client) AllTasks() ([]Task, error) {
	out, err := c.run("export")
	if err != nil {
		return nil, err
	}
	var tasks []Task
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !gjson.Valid(line) {
			continue
		}
		if t, ok := parseExportLine(line); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// parseExportLine decodes one JSONL record. Dependency entries vary by bd
// version: either objects with depends_on_id/type or bare "type:id" strings.
func parseExportLine(line string) (Task, bool) {
	id := gjson.Get(line, "id").String()
	if id == "" {
		return Task{}, false
	}
	t := Task{
		ID:          id,
		Title:       gjson.Get(line, "title").String(),
		Status:      gjson.Get(line, "status").String(),
		Assignee:    gjson.Get(line, "assignee").String(),
		Type:        gjson.Get(line, "issue_type").String(),
		Description: gjson.Get(line, "description").String(),
		Created:     gjson.Get(line, "created_at").String(),
		Updated:     gjson.Get(line, "updated_at").String(),
	}
	if p := gjson.Get(line, "priority"); p.Exists() {
		v := int(p.Int())
		t.Priority = &v
	}
	gjson.Get(line, "labels").ForEach(func(_, v gjson.Result) bool {
		t.Labels = append(t.Labels, v.String())
		return true
	})
	gjson.Get(line, "dependencies").ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			dep := Dependency{
				DependsOnID: v.Get("depends_on_id").String(),
				Type:        DepType(v.Get("type").String()),
			}
			if dep.DependsOnID != "" {
				t.Dependencies = append(t.Dependencies, dep)
			}
			return true
		}
		// "type:id" or bare "id"
		s := v.String()
		if s == "" {
			return true
		}
		dep := Dependency{DependsOnID: s, Type: DepBlocks}
		if i := strings.IndexByte(s, ':'); i > 0 {
			dep.Type = DepType(s[:i])
			dep.DependsOnID = s[i+1:]
		}
		t.Dependencies = append(t.Dependencies, dep)
		return true
	})
	return t, true
}

// Ready returns tasks that are ready to work on (open, no open blockers).
func (c *Client) Ready() ([]Task, error) {
	out, err := c.run("ready", "--json", "--limit", "0")
	if err != nil {
		return nil, err
	}
	var tasks []Task
	gjson.ParseBytes(out).ForEach(func(_, v gjson.Result) bool {
		tasks = append(tasks, Task{
			ID:     v.Get("id").String(),
			Title:  v.Get("title").String(),
			Status: v.Get("status").String(),
		})
		return true
	})
	return tasks, nil
}

// Show returns full details for a single task.
func (c *Client) Show(id string) (*Task, error) {
	out, err := c.run("show", id, "--json")
	if err != nil {
		return nil, err
	}
	line := strings.TrimSpace(string(out))
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("parse bd show output for %s", id)
	}
	t, ok := parseExportLine(line)
	if !ok {
		return nil, fmt.Errorf("bd show %s: record has no id", id)
	}
	return &t, nil
}

// CreateOptions carries the optional fields for Create.
type CreateOptions struct {
	Description string
	IssueType   string   // bug|feature|task|epic|chore
	Priority    *int     // 0-4, 0 highest
	Deps        []string // "type:id" or bare "id"
	Labels      []string
	Assignee    string
	ExplicitID  string
}

// Create creates a new task and returns the created record.
func (c *Client) Create(title string, opts CreateOptions) (*Task, error) {
	args := []string{"--json", "create", title}
	if opts.Description != "" {
		args = append(args, "--description", opts.Description)
	}
	if opts.IssueType != "" {
		args = append(args, "--type", opts.IssueType)
	}
	if opts.Priority != nil {
		args = append(args, "--priority", strconv.Itoa(*opts.Priority))
	}
	if opts.Assignee != "" {
		args = append(args, "--assignee", opts.Assignee)
	}
	if len(opts.Deps) > 0 {
		args = append(args, "--deps", strings.Join(opts.Deps, ","))
	}
	if opts.ExplicitID != "" {
		args = append(args, "--id", opts.ExplicitID)
	}
	out, err := c.run(args...)
	if err != nil {
		return nil, err
	}
	body := gjson.ParseBytes(out)
	if body.IsArray() {
		// Some bd versions return a single-element array.
		body = body.Get("0")
	}
	t, ok := parseExportLine(body.Raw)
	if !ok {
		return nil, fmt.Errorf("parse bd create output")
	}
	return &t, nil
}

// UpdateFields carries the optional updates for Update. Only non-zero
// fields are sent.
type UpdateFields struct {
	Status   string
	Assignee string
	Title    string
	Priority *int
	Notes    string
}

// Update changes fields of an existing task via bd update.
func (c *Client) Update(id string, f UpdateFields) error {
	args := []string{"update", id}
	n := len(args)
	if f.Status != "" {
		args = append(args, "--status", f.Status)
	}
	if f.Assignee != "" {
		args = append(args, "--assignee", f.Assignee)
	}
	if f.Title != "" {
		args = append(args, "--title", f.Title)
	}
	if f.Priority != nil {
		args = append(args, "--priority", strconv.Itoa(*f.Priority))
	}
	if f.Notes != "" {
		args = append(args, "--append-notes", f.Notes)
	}
	if len(args) == n {
		return fmt.Errorf("bd update %s: no fields to update", id)
	}
	_, err := c.run(args...)
	return err
}

// Close closes a task with an optional reason. bd uses "closed" for
// completed issues.
func (c *Client) Close(id string, reason string) error {
	args := []string{"close", id}
	if reason != "" {
		args = append(args, "--reason", reason)
	}
	_, err := c.run(args...)
	return err
}

// AddDep adds a typed dependency: id depends on dependsOnID.
func (c *Client) AddDep(id, dependsOnID string, depType DepType) error {
	if depType == "" {
		depType = DepBlocks
	}
	_, err := c.run("dep", "add", id, dependsOnID, "--type", string(depType))
	return err
}

// Stats returns the workspace status rollup by parsing bd stats text output.
func (c *Client) Stats() (Counts, error) {
	out, err := c.run("stats")
	if err != nil {
		return Counts{}, err
	}
	return parseStats(string(out)), nil
}

// parseStats extracts counts from the human-readable bd stats output.
func parseStats(out string) Counts {
	var counts Counts
	read := func(line string) int {
		_, after, found := strings.Cut(line, ":")
		if !found {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return 0
		}
		return n
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "Total Issues:"):
			counts.Total = read(line)
		case strings.Contains(line, "Ready to Work:"):
			counts.Ready = read(line)
		case strings.Contains(line, "In Progress:"):
			counts.InProgress = read(line)
		case strings.Contains(line, "Closed:"), strings.Contains(line, "Completed:"):
			counts.Completed = read(line)
		}
	}
	return counts
}
