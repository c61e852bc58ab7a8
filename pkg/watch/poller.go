package watch

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

// maxTicks caps how many times a single poller will re-query before giving
// up and surfacing an "Unknown" status instead of polling forever.
const maxTicks = 120

const (
	outcomeReady   = "ready"
	outcomeOffline = "offline"
	outcomeUnknown = "unknown"
	outcomeAborted = "aborted"
)

// poller owns the repeated query/evaluate/reschedule loop for exactly one
// resource. Each tick re-queries the external system, classifies the
// response, pushes a display update, and either completes or schedules the
// next tick from the ladder.
//
// Ticks are strictly sequential: a tick's query completes and is acted on
// before the next tick is armed. The live flag is re-checked after every
// blocking query so a result that arrives after abort or completion is
// always discarded.
type poller struct {
	ctx     context.Context
	ref     resource.Ref
	final   FinalState
	command string
	querier tool.Querier
	ladder  []time.Duration
	pusher  Pusher
	onDone  func()

	mu      sync.Mutex
	tick    int
	live    bool
	timer   *time.Timer
	lastRow table.Row
}

func newPoller(
	ctx context.Context,
	ref resource.Ref,
	final FinalState,
	command string,
	querier tool.Querier,
	ladder []time.Duration,
	initialRow table.Row,
	pusher Pusher,
	onDone func(),
) *poller {
	return &poller{
		ctx:     ctx,
		ref:     ref,
		final:   final,
		command: command,
		querier: querier,
		ladder:  ladder,
		lastRow: initialRow.Clone(),
		pusher:  pusher,
		onDone:  onDone,
	}
}

// start marks the poller live and performs tick 0 immediately, with no
// initial delay.
func (p *poller) start() {
	p.mu.Lock()
	p.live = true
	p.mu.Unlock()

	metricActivePollers.Inc()
	go p.pollTick()
}

// abort cancels any pending tick. It's idempotent and safe to call on a
// completed or never-started poller.
func (p *poller) abort() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.live {
		return
	}
	p.live = false

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	metricCompletions.WithLabelValues(outcomeAborted).Inc()
	metricActivePollers.Dec()
}

// pollTick is one full turn of the loop: query, evaluate, emit, reschedule
// or complete.
func (p *poller) pollTick() {
	p.mu.Lock()
	if !p.live {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	metricPollTicks.WithLabelValues(p.final.String()).Inc()
	result, err := p.querier.Query(p.ctx, p.command)

	p.mu.Lock()
	if !p.live {
		// Aborted while the query was in flight; discard the result.
		p.mu.Unlock()
		return
	}

	if err != nil {
		if tool.IsNotFound(err) && p.final == FinalStateGone {
			// The resource is gone, which is exactly what we were
			// waiting for.
			p.completeLocked(outcomeOffline)
			p.mu.Unlock()

			p.pusher.Offline(p.ref.Name)
			p.onDone()
			return
		}

		// Transient per-tick failure; keep polling.
		log.Debugf("Error polling %s, will retry: %+v", p.ref, err)
		unknown, gaveUp := p.scheduleNextLocked()
		p.mu.Unlock()

		if gaveUp {
			p.pusher.Update(unknown.Clone())
			p.onDone()
		}
		return
	}

	if len(result.Rows) != 1 {
		log.Warnf(
			"Expected exactly one row for %s but got %d; will retry",
			p.ref,
			len(result.Rows),
		)
		unknown, gaveUp := p.scheduleNextLocked()
		p.mu.Unlock()

		if gaveUp {
			p.pusher.Update(unknown.Clone())
			p.onDone()
		}
		return
	}

	observed := result.Rows[0]
	ready := IsReady(observed, p.final)

	updated := p.lastRow.Clone()
	updated.Set(columnStatus, statusText(observed))
	if ready {
		updated.SetSeverity(columnStatus, table.SeverityOK)
	}
	p.lastRow = updated

	if ready {
		p.completeLocked(outcomeReady)
		p.mu.Unlock()

		p.pusher.Update(updated.Clone())
		p.onDone()
		return
	}

	unknown, gaveUp := p.scheduleNextLocked()
	p.mu.Unlock()

	if gaveUp {
		// The escalated row already folds in this tick's observation.
		p.pusher.Update(unknown.Clone())
		p.onDone()
		return
	}

	p.pusher.Update(updated.Clone())
}

// scheduleNextLocked arms the timer for the next tick, or escalates to a
// terminal "Unknown" status once the attempt cap is reached. On escalation
// it returns the terminal row and true; the caller emits it after
// unlocking, like every other terminal path. Callers must hold p.mu.
func (p *poller) scheduleNextLocked() (table.Row, bool) {
	if p.tick >= maxTicks {
		log.Warnf(
			"Giving up on %s after %d polls; marking status unknown",
			p.ref,
			p.tick,
		)

		unknown := p.lastRow.Clone()
		unknown.Set(columnStatus, "Unknown")
		unknown.SetSeverity(columnStatus, table.SeverityWarn)
		p.lastRow = unknown

		p.completeLocked(outcomeUnknown)
		return unknown, true
	}

	delay := p.ladder[len(p.ladder)-1]
	if p.tick < len(p.ladder) {
		delay = p.ladder[p.tick]
	}
	p.tick++

	p.timer = time.AfterFunc(delay, p.pollTick)
	return table.Row{}, false
}

// completeLocked transitions the poller to a terminal state. Callers must
// hold p.mu.
func (p *poller) completeLocked(outcome string) {
	p.live = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	metricCompletions.WithLabelValues(outcome).Inc()
	metricActivePollers.Dec()
}
