package bd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store reads tasks directly from the beads SQLite database. It is the
// fast path for snapshot polling; the CLI client is the fallback when the
// database cannot be opened.
type Store struct {
	db *sql.DB
}

// FindDB locates the beads database under workspace/.beads.
func FindDB(workspace string) (string, error) {
	dir := filepath.Join(workspace, ".beads")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	var candidate string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		if e.Name() == "beads.db" {
			return filepath.Join(dir, e.Name()), nil
		}
		if candidate == "" {
			candidate = filepath.Join(dir, e.Name())
		}
	}
	if candidate == "" {
		return "", fmt.Errorf("no .db file in %s", dir)
	}
	return candidate, nil
}

// OpenStore opens the beads database read-only.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open beads db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open beads db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AllTasks returns every issue with its dependency edges, ordered by
// creation time for stable snapshot ordering.
func (s *Store) AllTasks() ([]Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, status, assignee, priority, issue_type, description,
		       created_at, updated_at
		FROM issues
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	index := make(map[string]int)
	for rows.Next() {
		var t Task
		var status, assignee, issueType, desc, created, updated sql.NullString
		var priority sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Title, &status, &assignee, &priority,
			&issueType, &desc, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		t.Status = status.String
		t.Assignee = assignee.String
		t.Type = issueType.String
		t.Description = desc.String
		t.Created = created.String
		t.Updated = updated.String
		if priority.Valid {
			v := int(priority.Int64)
			t.Priority = &v
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}

	deps, err := s.db.Query(`SELECT issue_id, depends_on_id, type FROM dependencies`)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer deps.Close()
	for deps.Next() {
		var issueID, dependsOn string
		var depType sql.NullString
		if err := deps.Scan(&issueID, &dependsOn, &depType); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		i, ok := index[issueID]
		if !ok {
			continue
		}
		tasks[i].Dependencies = append(tasks[i].Dependencies, Dependency{
			DependsOnID: dependsOn,
			Type:        DepType(depType.String),
		})
	}
	if err := deps.Err(); err != nil {
		return nil, fmt.Errorf("iterate dependencies: %w", err)
	}

	return tasks, nil
}

// Fallback is a Source that prefers the SQLite store and falls back to the
// CLI client when the store is unavailable or fails mid-read.
type Fallback struct {
	Store  *Store // may be nil
	Client *Client
}

// AllTasks reads from the store when possible, otherwise the CLI.
func (f *Fallback) AllTasks() ([]Task, error) {
	if f.Store != nil {
		tasks, err := f.Store.AllTasks()
		if err == nil {
			return tasks, nil
		}
	}
	return f.Client.AllTasks()
}
