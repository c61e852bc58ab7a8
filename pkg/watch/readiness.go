package watch

import (
	"strings"

	"github.com/kubeterm/kubeterm/pkg/table"
)

// FinalState is the terminal condition a watched resource is expected to
// reach.
type FinalState int

const (
	// FinalStateReady means the resource should settle into a
	// non-transitional, ready state (after a create or apply).
	FinalStateReady FinalState = iota

	// FinalStateGone means the resource should disappear entirely (after
	// a delete). A textual status can never signal this; absence of the
	// resource, detected by the poller as a not-found query result, does.
	FinalStateGone
)

// String returns a human-readable name for logs.
func (s FinalState) String() string {
	switch s {
	case FinalStateGone:
		return "gone"
	default:
		return "ready"
	}
}

const (
	columnStatus = "STATUS"
	columnReady  = "READY"
)

// readyStatuses are the status strings that mean a resource has settled.
// Anything not in this set keeps the poller going.
var readyStatuses = map[string]struct{}{
	"Active":    {},
	"Available": {},
	"Bound":     {},
	"Complete":  {},
	"Completed": {},
	"Deployed":  {},
	"Normal":    {},
	"Online":    {},
	"Ready":     {},
	"Running":   {},
	"Succeeded": {},
}

// signalKind tags which readiness signal a status row actually carries.
type signalKind int

const (
	signalUnknown signalKind = iota
	signalStatusText
	signalReadyRatio
)

// readinessSignal is the classified form of one status row, resolved once
// per snapshot and then dispatched on structurally.
type readinessSignal struct {
	kind   signalKind
	status string
	ready  string
	total  string
}

// classifySignal resolves which signal, if any, the row exposes. Explicit
// status text wins over ready-count ratios.
func classifySignal(row table.Row) readinessSignal {
	if status, ok := row.Get(columnStatus); ok && status != "" {
		return readinessSignal{
			kind:   signalStatusText,
			status: status,
		}
	}

	if ratio, ok := row.Get(columnReady); ok && ratio != "" {
		ready, total, found := cutRatio(ratio)
		if found {
			return readinessSignal{
				kind:  signalReadyRatio,
				ready: ready,
				total: total,
			}
		}
	}

	return readinessSignal{kind: signalUnknown}
}

// IsReady decides whether the argument status row has reached the target
// final state. The policy is three-tiered: explicit status text first, then
// a READY "n/m" ratio, then an optimistic default for resource kinds that
// expose neither column and are considered immediately stable.
func IsReady(row table.Row, final FinalState) bool {
	signal := classifySignal(row)

	switch signal.kind {
	case signalStatusText:
		if final == FinalStateGone {
			return false
		}
		_, ok := readyStatuses[signal.status]
		return ok
	case signalReadyRatio:
		return signal.ready != "" &&
			signal.total != "" &&
			signal.ready == signal.total
	default:
		return true
	}
}

// cutRatio splits an "n/m" ready count into its components.
func cutRatio(ratio string) (string, string, bool) {
	index := strings.Index(ratio, "/")
	if index < 0 {
		return "", "", false
	}
	return ratio[:index], ratio[index+1:], true
}

// statusText derives the freshest display text for a row's STATUS column,
// preferring explicit status text, then the ready ratio, then "Ready".
func statusText(row table.Row) string {
	if status, ok := row.Get(columnStatus); ok && status != "" {
		return status
	}
	if ratio, ok := row.Get(columnReady); ok && ratio != "" {
		return ratio
	}
	return "Ready"
}
