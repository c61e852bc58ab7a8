package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

// Pusher receives live updates from a watch session. All notifications are
// one-way and fire-and-forget; implementations live in the rendering layer.
type Pusher interface {
	// Update replaces the display row for one resource. The row is
	// always a fresh copy owned by the receiver.
	Update(row table.Row)

	// Offline reports that the named resource no longer exists (the
	// successful outcome when awaiting a delete).
	Offline(name string)

	// Done reports that every tracked resource has reached its final
	// state. It's sent exactly once per session.
	Done()
}

// Options carries the query-context parameters shared by every poller in a
// session.
type Options struct {
	// BaseCommand is the external tool invoked for queries, e.g.
	// "kubectl".
	BaseCommand string

	// Context is the cluster context flag to pass through, if any.
	Context string

	// KubeConfigPath is the kubeconfig to pass through, if any.
	KubeConfigPath string

	// Initial is the first poll interval. Zero means the default.
	Initial time.Duration

	// Ceiling bounds the poll interval. Zero means the default.
	Ceiling time.Duration
}

// Watcher coordinates one poller per tracked resource and aggregates their
// completion into a single done signal for the view.
type Watcher struct {
	refs    []resource.Ref
	final   FinalState
	options Options
	querier tool.Querier
	ladder  []time.Duration

	mu      sync.Mutex
	pollers []*poller
	pending int
	started bool
	done    bool
}

// NewWatcher builds a Watcher over the argument references. Nothing runs
// until Init is called.
func NewWatcher(
	refs []resource.Ref,
	final FinalState,
	options Options,
	querier tool.Querier,
) *Watcher {
	if options.BaseCommand == "" {
		options.BaseCommand = "kubectl"
	}

	return &Watcher{
		refs:    refs,
		final:   final,
		options: options,
		querier: querier,
		ladder:  Ladder(options.Initial, options.Ceiling),
		pending: len(refs),
	}
}

// InitialTable synthesizes the starting display snapshot: one Pending row
// per reference. The NAMESPACE column is included only when at least one
// reference lives outside the default namespace; the decision applies to
// the whole batch, not per row.
func (w *Watcher) InitialTable() *table.Table {
	withNamespace := false
	for _, ref := range w.refs {
		if ref.Namespace != resource.DefaultNamespace {
			withNamespace = true
			break
		}
	}

	columns := []string{"NAME", "KIND"}
	if withNamespace {
		columns = append(columns, "NAMESPACE")
	}
	columns = append(columns, columnStatus)

	initial := &table.Table{Columns: columns}

	for _, ref := range w.refs {
		row := table.Row{}
		row.Set("NAME", ref.Name)
		row.Set("KIND", ref.DisplayKind())
		if withNamespace {
			row.Set("NAMESPACE", ref.Namespace)
		}
		row.Set(columnStatus, "Pending")
		row.SetSeverity(columnStatus, table.SeverityInfo)

		initial.Rows = append(initial.Rows, row)
	}

	return initial
}

// Init starts live updates into the argument pusher: one poller per
// reference, each performing its first query immediately.
func (w *Watcher) Init(ctx context.Context, pusher Pusher) {
	initial := w.InitialTable()

	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		log.Warnf("Watcher already started; ignoring repeated Init")
		return
	}
	w.started = true

	for r, ref := range w.refs {
		w.pollers = append(
			w.pollers,
			newPoller(
				ctx,
				ref,
				w.final,
				w.queryCommand(ref),
				w.querier,
				w.ladder,
				initial.Rows[r],
				pusher,
				func() { w.onChildDone(pusher) },
			),
		)
	}
	pollers := w.pollers
	w.mu.Unlock()

	for _, p := range pollers {
		p.start()
	}
}

// Abort stops every still-live poller. It's safe to call at any point,
// including after all pollers have completed and been released.
func (w *Watcher) Abort() {
	w.mu.Lock()
	pollers := w.pollers
	w.pollers = nil
	w.mu.Unlock()

	for _, p := range pollers {
		p.abort()
	}
}

// onChildDone is invoked once per resource, the first time that resource is
// observed in its final state. The countdown only ever decreases; when it
// reaches zero the watcher signals overall completion exactly once and
// releases its pollers.
func (w *Watcher) onChildDone(pusher Pusher) {
	w.mu.Lock()
	w.pending--
	finished := w.pending == 0 && !w.done
	if finished {
		w.done = true
		w.pollers = nil
	}
	w.mu.Unlock()

	if finished {
		pusher.Done()
	}
}

// queryCommand assembles the invocation used to re-query one reference.
func (w *Watcher) queryCommand(ref resource.Ref) string {
	parts := []string{
		w.options.BaseCommand,
		"get",
		ref.KindArg(),
		ref.Name,
		"-n",
		ref.Namespace,
	}

	if w.options.Context != "" {
		parts = append(
			parts,
			fmt.Sprintf("--context=%s", w.options.Context),
		)
	}
	if w.options.KubeConfigPath != "" {
		parts = append(
			parts,
			fmt.Sprintf("--kubeconfig=%s", w.options.KubeConfigPath),
		)
	}

	return strings.Join(parts, " ")
}
