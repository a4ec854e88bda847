// Package poller fetches task snapshots from a source on a fixed cadence.
package poller

import (
	"context"
	"log"
	"time"

	"github.com/joshharrison/beadview/internal/bd"
)

// DefaultInterval matches the UI refresh cadence.
const DefaultInterval = 5 * time.Second

// Handler consumes one snapshot. Handlers run sequentially: the poller
// never overlaps calls, preserving the single-writer discipline the view
// and its change detector require.
type Handler func(tasks []bd.Task)

// Poller periodically reads a full snapshot and hands it to a Handler.
type Poller struct {
	Source   bd.Source
	Interval time.Duration
	Handle   Handler
}

// New creates a Poller with the default interval.
func New(source bd.Source, handle Handler) *Poller {
	return &Poller{Source: source, Interval: DefaultInterval, Handle: handle}
}

// Run polls until ctx is cancelled. The first snapshot is fetched
// immediately, before the first tick. Fetch failures are logged and the
// tick skipped; the consumer keeps its previous data.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	tasks, err := p.Source.AllTasks()
	if err != nil {
		log.Printf("poll: fetch snapshot: %v", err)
		return
	}
	p.Handle(tasks)
}
