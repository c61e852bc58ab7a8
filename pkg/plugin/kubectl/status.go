package kubectl

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/tool"
	"github.com/kubeterm/kubeterm/pkg/watch"
)

// StatusOptions configures one status/watch request.
type StatusOptions struct {
	// Args are positional tokens of the form "kind name", where kind may
	// be fully qualified as kind.version.group.
	Args []string

	// FilePath points at a manifest whose declared resources should be
	// tracked. Takes precedence over Args.
	FilePath string

	// Refs tracks an explicit reference set, bypassing Args/FilePath
	// resolution. Used when an upstream command already knows what it
	// touched.
	Refs []resource.Ref

	// Response is the upstream command's textual response, returned
	// as-is when no references can be resolved.
	Response string

	// Namespace is the namespace refs are defaulted into.
	Namespace string

	// Context and KubeConfigPath are passed through to every query.
	Context        string
	KubeConfigPath string

	// FinalState is what the tracked resources are expected to reach.
	FinalState watch.FinalState

	// Initial and Ceiling tune the poll ladder. Zero means defaults.
	Initial time.Duration
	Ceiling time.Duration
}

// Session is the result of a status request: either a watchable table, or a
// plain pass-through response when reference resolution failed.
type Session struct {
	// Response is the pass-through text; set only when Watcher is nil.
	Response string

	// Table is the initial display snapshot.
	Table *table.Table

	// Watcher drives live updates; the view calls Init to start them and
	// Abort to stop them.
	Watcher *watch.Watcher
}

// Status resolves the set of resources to track and wires them to a
// watcher. Resolution failures are recovered by falling back to the
// upstream response text; they never surface as hard errors.
func (p *Plugin) Status(
	ctx context.Context,
	options StatusOptions,
) *Session {
	refs := options.Refs

	if len(refs) == 0 {
		var err error
		refs, err = p.resolveRefs(options)
		if err != nil {
			log.Warnf(
				"Could not resolve resources to watch, passing through: %+v",
				err,
			)
			return &Session{Response: options.Response}
		}
	}

	watcher := watch.NewWatcher(
		refs,
		options.FinalState,
		watch.Options{
			BaseCommand:    p.config.KubectlPath,
			Context:        options.Context,
			KubeConfigPath: options.KubeConfigPath,
			Initial:        options.Initial,
			Ceiling:        options.Ceiling,
		},
		&tool.TableQuerier{Runner: p.runner},
	)

	return &Session{
		Table:   watcher.InitialTable(),
		Watcher: watcher,
	}
}

func (p *Plugin) resolveRefs(options StatusOptions) ([]resource.Ref, error) {
	namespace := options.Namespace
	if namespace == "" {
		namespace = p.config.Namespace
	}

	if options.FilePath != "" {
		return resource.RefsFromManifestFile(options.FilePath, namespace)
	}

	if len(options.Args) >= 2 {
		ref, err := resource.ParseKindArg(
			options.Args[0],
			options.Args[1],
			namespace,
		)
		if err != nil {
			return nil, err
		}
		return []resource.Ref{ref}, nil
	}

	return nil, errNoRefs
}

var errNoRefs = errors.New("no manifest file or kind/name arguments supplied")
