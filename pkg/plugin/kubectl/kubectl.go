package kubectl

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/kube"
	"github.com/kubeterm/kubeterm/pkg/tool"
	"github.com/kubeterm/kubeterm/pkg/util"
)

// Swappable for tests.
var discoverResources = kube.Discover

// Plugin translates kubectl-style commands into invocations of the real
// binary. Most commands pass straight through; delete is confirmed first,
// and the status orchestrator (status.go) layers watch sessions on top.
type Plugin struct {
	config *config.Config
	runner tool.Runner

	// SkipConfirm bypasses the interactive prompt before deletes.
	SkipConfirm bool

	// KubeConfigPath points cluster API discovery at a specific
	// kubeconfig. Empty means the client's default loading rules.
	KubeConfigPath string
}

// ResponseCancelled is returned by Run when the user declines a delete
// confirmation.
const ResponseCancelled = "Delete cancelled"

// New returns a kubectl plugin backed by the argument runner.
func New(cfg *config.Config, runner tool.Runner) *Plugin {
	return &Plugin{
		config: cfg,
		runner: runner,
	}
}

// Name implements shell.Plugin.
func (p *Plugin) Name() string {
	return "kubectl"
}

// Run assembles and executes one kubectl invocation.
func (p *Plugin) Run(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("No kubectl subcommand given")
	}

	if args[0] == "delete" {
		ok, err := util.Confirm(
			ctx,
			fmt.Sprintf("Delete via %q?", strings.Join(args, " ")),
			p.SkipConfirm,
		)
		if err != nil {
			return "", err
		}
		if !ok {
			return ResponseCancelled, nil
		}

		args = p.resolveDeleteArgs(args)
	}

	command := fmt.Sprintf(
		"%s %s",
		p.config.KubectlPath,
		strings.Join(args, " "),
	)

	output, err := p.runner.Run(ctx, command)
	return string(output), err
}

// resolveDeleteArgs maps the kind token of a delete to the plural resource
// name the binary expects. Resolution failures leave the token as typed;
// the binary produces its own error if the kind really is unknown.
func (p *Plugin) resolveDeleteArgs(args []string) []string {
	if len(args) < 3 || strings.HasPrefix(args[1], "-") {
		return args
	}

	resolved, err := p.ResolveKind(p.KubeConfigPath, args[1])
	if err != nil {
		log.Debugf(
			"Could not resolve kind %q, using it as typed: %+v",
			args[1],
			err,
		)
		return args
	}

	resolvedArgs := append([]string{}, args...)
	resolvedArgs[1] = resolved
	return resolvedArgs
}

// ResolveKind maps a user-supplied kind or short name to the plural
// resource name kubectl invocations expect, via cluster API discovery.
func (p *Plugin) ResolveKind(
	kubeConfigPath string,
	kind string,
) (string, error) {
	resources, err := discoverResources(kubeConfigPath)
	if err != nil {
		return "", err
	}
	return kube.ResolveResourceName(resources, kind)
}
