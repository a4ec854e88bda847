package bd

// DepType categorizes a dependency edge between two tasks.
type DepType string

const (
	DepBlocks         DepType = "blocks"
	DepRelated        DepType = "related"
	DepParent         DepType = "parent"
	DepDiscoveredFrom DepType = "discovered-from"
)

// Dependency is a directed relation: the owning task depends on DependsOnID.
type Dependency struct {
	DependsOnID string  `json:"depends_on_id"`
	Type        DepType `json:"type,omitempty"`
}

// Task is one task record as exported by the bd CLI or read from the
// beads database. Status is the raw tracker vocabulary; canonical
// interpretation lives in internal/status.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Status       string       `json:"status,omitempty"`
	Assignee     string       `json:"assignee,omitempty"`
	Priority     *int         `json:"priority,omitempty"`
	Type         string       `json:"issue_type,omitempty"`
	Labels       []string     `json:"labels,omitempty"`
	Description  string       `json:"description,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Created      string       `json:"created_at,omitempty"`
	Updated      string       `json:"updated_at,omitempty"`
}

// Counts is the status rollup returned by Stats and the /api/status endpoint.
type Counts struct {
	Total      int `json:"total"`
	Ready      int `json:"ready"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Source supplies full task snapshots. Both the CLI client and the
// direct SQLite store satisfy it.
type Source interface {
	AllTasks() ([]Task, error)
}
