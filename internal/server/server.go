// Package server exposes the live graph and the tracker write operations
// over HTTP, plus the embedded SPA that renders them.
package server

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/view"
)

// Server holds the latest computed frame and serves it alongside the
// tracker's write operations. OnSnapshot is the poller's handler; all
// HTTP reads see the most recent successfully laid-out frame.
type Server struct {
	View   *view.View
	Client *bd.Client

	mu    sync.RWMutex
	frame *view.Frame
	tasks []bd.Task
}

// New creates a Server around a view and a bd client for writes.
func New(v *view.View, client *bd.Client) *Server {
	return &Server{View: v, Client: client}
}

// OnSnapshot runs one view cycle for a fresh snapshot. On failure the
// previous frame stays visible; a silently wrong layout would be worse
// than a stale one.
func (s *Server) OnSnapshot(tasks []bd.Task) {
	frame, err := s.View.Update(tasks)
	if err != nil {
		log.Printf("snapshot cycle: %v", err)
		return
	}
	s.mu.Lock()
	s.frame = frame
	s.tasks = tasks
	s.mu.Unlock()
}

// snapshot returns the latest frame and task list.
func (s *Server) snapshot() (*view.Frame, []bd.Task) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.tasks
}

// Handler builds the full HTTP handler: API routes plus the embedded SPA.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/ready", s.handleReady)
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/claim", s.handleClaim)
	mux.HandleFunc("/api/complete", s.handleComplete)
	mux.HandleFunc("/api/create", s.handleCreate)
	mux.HandleFunc("/api/update", s.handleUpdate)
	mux.HandleFunc("/api/deps/add", s.handleDepAdd)

	distSub, err := fs.Sub(distFS, "dist")
	if err == nil && hasAssets(distSub) {
		mux.Handle("/", spaHandler(distSub))
	} else {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("No frontend assets embedded. Run 'make build-ui' first, then rebuild.\n"))
		})
	}

	return logRequests(mux)
}

// Start serves in the background and returns the base URL.
func (s *Server) Start(port int) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("listen on port %d: %w", port, err)
	}
	go http.Serve(ln, s.Handler())
	return fmt.Sprintf("http://localhost:%d", port), nil
}

// logRequests logs one line per request with duration.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Truncate(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "beadview"})
}

// handleStatus reports the status rollup of the latest snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, tasks := s.snapshot()
	writeJSON(w, http.StatusOK, bd.CountStatuses(tasks))
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	_, tasks := s.snapshot()
	if tasks == nil {
		tasks = []bd.Task{}
	}
	writeJSON(w, http.StatusOK, map[string][]bd.Task{"tasks": tasks})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	_, tasks := s.snapshot()
	ready := bd.ReadyTasks(tasks)
	if ready == nil {
		ready = []bd.Task{}
	}
	writeJSON(w, http.StatusOK, map[string][]bd.Task{"tasks": ready})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	frame, _ := s.snapshot()
	if frame == nil {
		httpError(w, http.StatusNotFound, "no graph computed yet")
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

type claimRequest struct {
	AgentName string `json:"agent_name"`
}

// handleClaim assigns the first ready task to the requesting agent and
// moves it to in_progress.
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AgentName == "" {
		httpError(w, http.StatusBadRequest, "agent_name is required")
		return
	}

	_, tasks := s.snapshot()
	ready := bd.ReadyTasks(tasks)
	if len(ready) == 0 {
		httpError(w, http.StatusNotFound, "no tasks available")
		return
	}
	task := ready[0]

	err := s.Client.Update(task.ID, bd.UpdateFields{
		Status:   "in_progress",
		Assignee: req.AgentName,
	})
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	task.Status = "in_progress"
	task.Assignee = req.AgentName
	writeJSON(w, http.StatusOK, map[string]bd.Task{"task": task})
}

type completeRequest struct {
	TaskID string `json:"task_id"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TaskID == "" {
		httpError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	if err := s.Client.Close(req.TaskID, ""); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "task_id": req.TaskID})
}

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IssueType   string   `json:"issue_type"`
	Priority    *int     `json:"priority"`
	Deps        []string `json:"deps"`
	Labels      []string `json:"labels"`
	Assignee    string   `json:"assignee"`
	ID          string   `json:"id"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		httpError(w, http.StatusBadRequest, "title is required")
		return
	}
	created, err := s.Client.Create(req.Title, bd.CreateOptions{
		Description: req.Description,
		IssueType:   req.IssueType,
		Priority:    req.Priority,
		Deps:        req.Deps,
		Labels:      req.Labels,
		Assignee:    req.Assignee,
		ExplicitID:  req.ID,
	})
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]*bd.Task{"task": created})
}

type updateRequest struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Title    string `json:"title"`
	Priority *int   `json:"priority"`
	Notes    string `json:"notes"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TaskID == "" {
		httpError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	if req.Status == "" && req.Assignee == "" && req.Title == "" && req.Priority == nil && req.Notes == "" {
		httpError(w, http.StatusBadRequest, "no fields provided to update")
		return
	}
	err := s.Client.Update(req.TaskID, bd.UpdateFields{
		Status:   req.Status,
		Assignee: req.Assignee,
		Title:    req.Title,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "task_id": req.TaskID})
}

type depAddRequest struct {
	IssueID     string `json:"issue_id"`
	DependsOnID string `json:"depends_on_id"`
	Type        string `json:"type"`
}

func (s *Server) handleDepAdd(w http.ResponseWriter, r *http.Request) {
	var req depAddRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IssueID == "" || req.DependsOnID == "" {
		httpError(w, http.StatusBadRequest, "issue_id and depends_on_id are required")
		return
	}
	if err := s.Client.AddDep(req.IssueID, req.DependsOnID, bd.DepType(req.Type)); err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "task_id": req.IssueID})
}

// decodeBody decodes a JSON POST body, rejecting other methods.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

// hasAssets reports whether the embedded dist contains real files beyond
// the .gitkeep placeholder.
func hasAssets(dist fs.FS) bool {
	found := false
	fs.WalkDir(dist, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() != ".gitkeep" {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// spaHandler serves the embedded SPA with index.html fallback for
// client-side routing.
func spaHandler(dist fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(dist))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if f, err := dist.Open(path); err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
