package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/cli"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"k8s.io/klog/v2"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/plugin/cloud"
	"github.com/kubeterm/kubeterm/pkg/plugin/helm"
	"github.com/kubeterm/kubeterm/pkg/plugin/kubectl"
	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/shell"
	"github.com/kubeterm/kubeterm/pkg/tool"
	"github.com/kubeterm/kubeterm/pkg/view"
	"github.com/kubeterm/kubeterm/pkg/watch"
)

const (
	runHelp = "run a cluster-management command through the kubeterm plugins"
	runDesc = `
Runs a single command through the kubeterm plugin registry, e.g.

  kubeterm run kubectl get pods
  kubeterm run helm list

Aliases defined in the config file are expanded before dispatch.
`

	statusHelp = "watch resources until they reach their final state"
	statusDesc = `
Builds a live status table for a set of resources and polls the external
system until every one of them reaches its final state.

The resources to track come from a manifest file (-f), a helm release
(--release), or positional 'kind name' arguments, where kind may be fully
qualified as kind.version.group:

  kubeterm status deployment.v1.apps nginx
  kubeterm status -f manifest.yaml
  kubeterm status --release nginx --gone
`
)

type runConfig struct {
	ConfigPath string `flag:"--config" help:"Path to config file" default:"-"`
	Yes        bool   `flag:"-y,--yes" help:"Skip confirmation prompts" default:"false"`
	NoWatch    bool   `flag:"--no-watch" help:"Don't watch resources after mutating commands" default:"false"`
	Debug      bool   `flag:"--debug" help:"Log at debug level" default:"false"`
}

type statusConfig struct {
	ConfigPath     string `flag:"--config" help:"Path to config file" default:"-"`
	File           string `flag:"-f,--file" help:"Manifest whose resources should be tracked" default:"-"`
	Release        string `flag:"--release" help:"Helm release whose resources should be tracked" default:"-"`
	Namespace      string `flag:"-n,--namespace" help:"Namespace for the tracked resources" default:"-"`
	Context        string `flag:"--context" help:"Cluster context to query" default:"-"`
	KubeConfigPath string `flag:"--kubeconfig" help:"Path to kubeconfig" default:"-"`
	Gone           bool   `flag:"--gone" help:"Wait for resources to disappear instead of becoming ready" default:"false"`
	Verbose        bool   `flag:"--verbose" help:"Log snapshot diffs between updates" default:"false"`
	Debug          bool   `flag:"--debug" help:"Log at debug level" default:"false"`
}

func init() {
	log.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	log.SetLevel(log.InfoLevel)
	klog.SetOutput(os.Stderr)
}

func main() {
	cli.Exec(
		cli.CommandSet{
			"run": &cli.CommandFunc{
				Help: runHelp,
				Desc: strings.TrimSpace(runDesc),
				Func: func(config runConfig, args ...string) {
					if config.Debug {
						log.SetLevel(log.DebugLevel)
					}

					if err := runCommand(
						context.Background(),
						config,
						args,
					); err != nil {
						log.Fatal(err)
					}
				},
			},
			"status": &cli.CommandFunc{
				Help: statusHelp,
				Desc: strings.TrimSpace(statusDesc),
				Func: func(config statusConfig, args ...string) {
					if config.Debug {
						log.SetLevel(log.DebugLevel)
					}

					if err := runStatus(
						context.Background(),
						config,
						args,
					); err != nil {
						log.Fatal(err)
					}
				},
			},
		},
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func buildRegistry(
	cfg *config.Config,
	runner tool.Runner,
	skipConfirm bool,
) *shell.Registry {
	kubectlPlugin := kubectl.New(cfg, runner)
	kubectlPlugin.SkipConfirm = skipConfirm

	registry := shell.NewRegistry()
	registry.Register(kubectlPlugin)
	registry.Register(helm.New(cfg, runner))
	registry.Register(cloud.New(cfg, runner))
	return registry
}

func runCommand(ctx context.Context, cmdConfig runConfig, args []string) error {
	cfg, err := loadConfig(cmdConfig.ConfigPath)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		expanded, ok, err := shell.ExpandAlias(
			cfg.Aliases,
			args[0],
			shell.AliasInput{
				Args:      args[1:],
				Namespace: cfg.Namespace,
			},
		)
		if err != nil {
			return err
		}
		if ok {
			log.Debugf("Expanded alias %q to %q", args[0], expanded)
			args = strings.Fields(expanded)
		}
	}

	runner := &tool.ExecRunner{}
	registry := buildRegistry(cfg, runner, cmdConfig.Yes)

	finalState, wantsWatch := watchVerb(args)
	if cmdConfig.NoWatch {
		wantsWatch = false
	}

	// Uninstalling a release removes its manifest with it, so the refs to
	// watch have to be captured before dispatch.
	var preRefs []resource.Ref
	if wantsWatch && args[0] == "helm" &&
		finalState == watch.FinalStateGone && len(args) >= 3 {
		refs, err := helm.New(cfg, runner).ReleaseRefs(
			ctx,
			args[2],
			flagValue(args, "-n", "--namespace"),
		)
		if err != nil {
			log.Warnf(
				"Could not resolve release %s for watching: %+v",
				args[2],
				err,
			)
		} else {
			preRefs = refs
		}
	}

	response, err := registry.Dispatch(ctx, args)
	if err != nil {
		return err
	}

	fmt.Println(response)

	if !wantsWatch || response == kubectl.ResponseCancelled {
		return nil
	}

	session := buildWatchSession(ctx, cfg, runner, args, finalState, preRefs)
	if session == nil || session.Watcher == nil {
		return nil
	}
	return streamSession(ctx, session, false)
}

// watchVerb reports whether a command mutates cluster state and, if so, the
// final state its resources should be watched toward.
func watchVerb(args []string) (watch.FinalState, bool) {
	if len(args) < 2 {
		return watch.FinalStateReady, false
	}

	switch args[0] {
	case "kubectl":
		switch args[1] {
		case "apply", "create":
			return watch.FinalStateReady, true
		case "delete":
			return watch.FinalStateGone, true
		}
	case "helm":
		switch args[1] {
		case "install", "upgrade":
			return watch.FinalStateReady, true
		case "uninstall", "delete":
			return watch.FinalStateGone, true
		}
	}
	return watch.FinalStateReady, false
}

// buildWatchSession resolves the resources a just-run mutation touched and
// wires them to a watcher. Returns a session without a watcher when nothing
// could be resolved.
func buildWatchSession(
	ctx context.Context,
	cfg *config.Config,
	runner tool.Runner,
	args []string,
	finalState watch.FinalState,
	preRefs []resource.Ref,
) *kubectl.Session {
	options := kubectl.StatusOptions{
		Refs:       preRefs,
		Namespace:  flagValue(args, "-n", "--namespace"),
		Context:    flagValue(args, "--context"),
		FinalState: finalState,
		Initial:    cfg.PollInitial(),
		Ceiling:    cfg.PollCeiling(),
	}

	switch args[0] {
	case "kubectl":
		if file := flagValue(args, "-f", "--filename"); file != "" {
			options.FilePath = file
		} else {
			options.Args = positionalArgs(args[2:])
		}
	case "helm":
		if len(options.Refs) == 0 && len(args) >= 3 {
			refs, err := helm.New(cfg, runner).ReleaseRefs(
				ctx,
				args[2],
				options.Namespace,
			)
			if err != nil {
				log.Warnf(
					"Could not resolve release %s for watching: %+v",
					args[2],
					err,
				)
				return nil
			}
			options.Refs = refs
		}
		if len(options.Refs) == 0 {
			return nil
		}
	}

	return kubectl.New(cfg, runner).Status(ctx, options)
}

// flagValue scans argv for any of the argument flag spellings and returns
// the value that follows, or "" if the flag isn't present.
func flagValue(argv []string, names ...string) string {
	for i, arg := range argv {
		for _, name := range names {
			if arg == name && i+1 < len(argv) {
				return argv[i+1]
			}
			if strings.HasPrefix(arg, name+"=") {
				return strings.TrimPrefix(arg, name+"=")
			}
		}
	}
	return ""
}

// positionalArgs strips flags and their values from a kubectl mutation's
// arguments, leaving the kind/name tokens.
func positionalArgs(argv []string) []string {
	positionals := []string{}

	skipNext := false
	for _, arg := range argv {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			skipNext = !strings.Contains(arg, "=")
			continue
		}
		positionals = append(positionals, arg)
	}

	return positionals
}

func runStatus(
	ctx context.Context,
	cmdConfig statusConfig,
	args []string,
) error {
	cfg, err := loadConfig(cmdConfig.ConfigPath)
	if err != nil {
		return err
	}

	runner := &tool.ExecRunner{}
	kubectlPlugin := kubectl.New(cfg, runner)

	finalState := watch.FinalStateReady
	if cmdConfig.Gone {
		finalState = watch.FinalStateGone
	}

	options := kubectl.StatusOptions{
		Args:           args,
		FilePath:       cmdConfig.File,
		Namespace:      cmdConfig.Namespace,
		Context:        cmdConfig.Context,
		KubeConfigPath: cmdConfig.KubeConfigPath,
		FinalState:     finalState,
		Initial:        cfg.PollInitial(),
		Ceiling:        cfg.PollCeiling(),
	}

	if cmdConfig.Release != "" {
		helmPlugin := helm.New(cfg, runner)
		refs, err := helmPlugin.ReleaseRefs(
			ctx,
			cmdConfig.Release,
			cmdConfig.Namespace,
		)
		if err != nil {
			return err
		}
		options.Refs = refs
	}

	session := kubectlPlugin.Status(ctx, options)
	if session.Watcher == nil {
		fmt.Println(session.Response)
		return nil
	}

	return streamSession(ctx, session, cmdConfig.Verbose)
}

// streamSession runs a watch session to completion, printing the table to
// stdout on every update.
func streamSession(
	ctx context.Context,
	session *kubectl.Session,
	verbose bool,
) error {
	pusher := view.NewStreamPusher(session.Table, os.Stdout, verbose)
	doneCh := make(chan struct{})

	session.Watcher.Init(ctx, &doneSignaler{
		Pusher: pusher,
		doneCh: doneCh,
	})

	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		session.Watcher.Abort()
		return ctx.Err()
	case <-time.After(30 * time.Minute):
		session.Watcher.Abort()
		return fmt.Errorf("Timed out waiting for resources")
	}
}

// doneSignaler wraps a pusher so the command can block until Done.
type doneSignaler struct {
	watch.Pusher
	doneCh chan struct{}
}

func (s *doneSignaler) Done() {
	s.Pusher.Done()
	close(s.doneCh)
}
