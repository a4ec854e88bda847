package ui

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/joshharrison/beadview/internal/view"
)

// PrintChanges writes one line per changed task in a frame, for the watch
// command's terminal feed. Silent when nothing changed.
func PrintChanges(w io.Writer, frame *view.Frame) {
	if len(frame.ChangedIDs) == 0 {
		return
	}

	stamp := frame.Taken.Format(time.Kitchen)
	titles := make(map[string]string, len(frame.Nodes))
	for _, n := range frame.Nodes {
		titles[n.ID] = n.Data.Title
	}

	ids := append([]string(nil), frame.ChangedIDs...)
	sort.Strings(ids)
	for _, id := range ids {
		line := fmt.Sprintf("%s %s %s", Dim(stamp), BoldMagenta(id), titles[id])
		if summary := frame.Summaries[id]; summary != "" {
			line += " " + Dim("("+summary+")")
		}
		fmt.Fprintln(w, line)
	}
}

// PrintGraph writes a terminal summary of a frame: counts plus one line
// per node with its status glyph.
func PrintGraph(w io.Writer, frame *view.Frame) {
	fmt.Fprintf(w, "%s  %d tasks, %d edges\n\n",
		BoldCyan("beadview"), len(frame.Nodes), len(frame.Edges))
	for _, n := range frame.Nodes {
		pulse := ""
		if n.Pulse {
			pulse = " " + BoldYellow("*")
		}
		fmt.Fprintf(w, "  %s %s  %s%s\n",
			StatusGlyph(n.Data.Status), BoldMagenta(n.ID), n.Data.Title, pulse)
	}
}
