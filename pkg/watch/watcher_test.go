package watch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

func testRefs(names ...string) []resource.Ref {
	refs := []resource.Ref{}
	for _, name := range names {
		refs = append(refs, testRef(name))
	}
	return refs
}

func testOptions() Options {
	return Options{
		BaseCommand: "kubectl",
		Initial:     time.Millisecond,
		Ceiling:     5 * time.Millisecond,
	}
}

func TestWatcherInitialTable(t *testing.T) {
	watcher := NewWatcher(
		testRefs("nginx", "redis"),
		FinalStateReady,
		testOptions(),
		&fakeQuerier{},
	)

	initial := watcher.InitialTable()

	// All refs are in the default namespace, so the NAMESPACE column is
	// suppressed for the whole batch.
	assert.Equal(t, []string{"NAME", "KIND", "STATUS"}, initial.Columns)
	require.Equal(t, 2, len(initial.Rows))

	name, _ := initial.Rows[0].Get("NAME")
	assert.Equal(t, "nginx", name)

	kind, _ := initial.Rows[0].Get("KIND")
	assert.Equal(t, "deployment apps/v1", kind)

	status, _ := initial.Rows[1].Get("STATUS")
	assert.Equal(t, "Pending", status)
}

func TestWatcherInitialTableWithNamespaces(t *testing.T) {
	refs := testRefs("nginx")
	other, err := resource.ParseKindArg("service", "redis", "cache")
	require.NoError(t, err)
	refs = append(refs, other)

	watcher := NewWatcher(
		refs,
		FinalStateReady,
		testOptions(),
		&fakeQuerier{},
	)

	initial := watcher.InitialTable()

	// One non-default namespace is enough to include the column for
	// every row.
	assert.Equal(
		t,
		[]string{"NAME", "KIND", "NAMESPACE", "STATUS"},
		initial.Columns,
	)

	namespace, _ := initial.Rows[0].Get("NAMESPACE")
	assert.Equal(t, "default", namespace)

	namespace, _ = initial.Rows[1].Get("NAMESPACE")
	assert.Equal(t, "cache", namespace)
}

func TestWatcherAllDoneExactlyOnce(t *testing.T) {
	// Resources become ready at different tick counts; Done must fire
	// exactly once, after the slowest one.
	querier := &fakeQuerier{
		script: func(command string, call int) (*table.Table, error) {
			name := commandName(command)
			needed := map[string]int{
				"nginx": 0,
				"redis": 2,
				"kafka": 1,
			}
			if call >= needed[name] {
				return statusTable(name, "Running"), nil
			}
			return statusTable(name, "Pending"), nil
		},
	}

	watcher := NewWatcher(
		testRefs("nginx", "redis", "kafka"),
		FinalStateReady,
		testOptions(),
		querier,
	)

	pusher := newFakePusher()
	watcher.Init(context.Background(), pusher)
	waitSignal(t, pusher.doneCh, "watcher completion")

	time.Sleep(50 * time.Millisecond)

	updates, _, dones := pusher.snapshot()
	assert.Equal(t, 1, dones)

	// Every resource pushed at least its ready update.
	readyNames := map[string]bool{}
	for _, row := range updates {
		status, _ := row.Get("STATUS")
		if status == "Running" {
			readyNames[row.Name()] = true
		}
	}
	assert.Equal(
		t,
		map[string]bool{"nginx": true, "redis": true, "kafka": true},
		readyNames,
	)
}

func TestWatcherOfflineCountdown(t *testing.T) {
	querier := &fakeQuerier{
		script: func(command string, call int) (*table.Table, error) {
			name := commandName(command)
			if name == "redis" && call == 0 {
				// Still terminating on the first look.
				return statusTable(name, "Terminating"), nil
			}
			return nil, &tool.CodedError{Code: tool.CodeNotFound}
		},
	}

	watcher := NewWatcher(
		testRefs("nginx", "redis"),
		FinalStateGone,
		testOptions(),
		querier,
	)

	pusher := newFakePusher()
	watcher.Init(context.Background(), pusher)
	waitSignal(t, pusher.doneCh, "watcher completion")

	_, offlines, dones := pusher.snapshot()
	assert.Equal(t, 1, dones)
	assert.ElementsMatch(t, []string{"nginx", "redis"}, offlines)
}

func TestWatcherAbortAfterCompletion(t *testing.T) {
	querier := &fakeQuerier{
		script: func(command string, call int) (*table.Table, error) {
			return statusTable(commandName(command), "Running"), nil
		},
	}

	watcher := NewWatcher(
		testRefs("nginx"),
		FinalStateReady,
		testOptions(),
		querier,
	)

	pusher := newFakePusher()
	watcher.Init(context.Background(), pusher)
	waitSignal(t, pusher.doneCh, "watcher completion")

	// Pollers have been released; abort must tolerate that.
	watcher.Abort()
	watcher.Abort()

	queries := querier.callCount()
	updates, _, dones := pusher.snapshot()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, queries, querier.callCount())
	newUpdates, _, newDones := pusher.snapshot()
	assert.Equal(t, len(updates), len(newUpdates))
	assert.Equal(t, dones, newDones)
}

func TestWatcherAbortStopsPolling(t *testing.T) {
	querier := &fakeQuerier{
		script: func(command string, call int) (*table.Table, error) {
			return statusTable(commandName(command), "Pending"), nil
		},
	}

	watcher := NewWatcher(
		testRefs("nginx", "redis"),
		FinalStateReady,
		testOptions(),
		querier,
	)

	pusher := newFakePusher()
	watcher.Init(context.Background(), pusher)

	require.Eventually(
		t,
		func() bool { return querier.callCount() >= 4 },
		5*time.Second,
		time.Millisecond,
	)
	watcher.Abort()

	time.Sleep(20 * time.Millisecond)
	queries := querier.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, queries, querier.callCount())

	_, _, dones := pusher.snapshot()
	assert.Equal(t, 0, dones)
}

func TestWatcherPushesFreshCopies(t *testing.T) {
	querier := &fakeQuerier{
		script: func(command string, call int) (*table.Table, error) {
			return statusTable(commandName(command), "Running"), nil
		},
	}

	watcher := NewWatcher(
		testRefs("nginx"),
		FinalStateReady,
		testOptions(),
		querier,
	)

	initial := watcher.InitialTable()

	pusher := newFakePusher()
	watcher.Init(context.Background(), pusher)
	waitSignal(t, pusher.doneCh, "watcher completion")

	updates, _, _ := pusher.snapshot()
	require.True(t, len(updates) > 0)

	// Mutating a pushed row must not leak back into the initial table.
	pushed := updates[0]
	pushed.Set("STATUS", "Mutated")

	status, _ := initial.Rows[0].Get("STATUS")
	assert.Equal(t, "Pending", status)
}

func TestWatcherQueryCommand(t *testing.T) {
	options := testOptions()
	options.Context = "prod-cluster"
	options.KubeConfigPath = "/tmp/kubeconfig"

	watcher := NewWatcher(
		testRefs("nginx"),
		FinalStateReady,
		options,
		&fakeQuerier{},
	)

	assert.Equal(
		t,
		"kubectl get deployment.v1.apps nginx -n default "+
			"--context=prod-cluster --kubeconfig=/tmp/kubeconfig",
		watcher.queryCommand(testRef("nginx")),
	)
}

// commandName extracts the resource name from a query command built by
// Watcher.queryCommand.
func commandName(command string) string {
	fields := strings.Fields(command)
	for f, field := range fields {
		if field == "get" && f+2 < len(fields) {
			return fields[f+2]
		}
	}
	return ""
}
