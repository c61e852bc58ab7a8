package view

import (
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/watch"
)

var _ watch.Pusher = (*StreamPusher)(nil)

// StreamPusher is a watch.Pusher for plain terminal output: every update
// re-renders the full table to the writer. Rows are matched to the initial
// snapshot by their NAME cell.
type StreamPusher struct {
	mu       sync.Mutex
	out      io.Writer
	snapshot *table.Table
	rendered string
	verbose  bool
}

// NewStreamPusher builds a pusher around the session's initial table and
// renders it once.
func NewStreamPusher(
	initial *table.Table,
	out io.Writer,
	verbose bool,
) *StreamPusher {
	pusher := &StreamPusher{
		out:      out,
		snapshot: initial.Clone(),
	}
	pusher.verbose = verbose
	pusher.rendered = Render(pusher.snapshot)
	fmt.Fprintf(out, "%s\n", pusher.rendered)
	return pusher
}

// Update replaces the matching row and re-renders.
func (p *StreamPusher) Update(row table.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := row.Name()
	for r := range p.snapshot.Rows {
		if p.snapshot.Rows[r].Name() == name {
			p.snapshot.Rows[r] = row.Clone()
			break
		}
	}

	p.renderLocked()
}

// Offline marks the named resource's row as gone and re-renders.
func (p *StreamPusher) Offline(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for r := range p.snapshot.Rows {
		if p.snapshot.Rows[r].Name() == name {
			p.snapshot.Rows[r].Set("STATUS", "Offline")
			p.snapshot.Rows[r].SetSeverity("STATUS", table.SeverityOK)
			break
		}
	}

	p.renderLocked()
}

// Done reports overall completion.
func (p *StreamPusher) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, "All resources have reached their final state")
}

func (p *StreamPusher) renderLocked() {
	rendered := Render(p.snapshot)

	if p.verbose {
		delta, err := SnapshotDiff(p.rendered, rendered)
		if err == nil && delta != "" {
			log.Debugf("Snapshot changed:\n%s", delta)
		}
	}

	p.rendered = rendered
	fmt.Fprintf(p.out, "%s\n", rendered)
}
