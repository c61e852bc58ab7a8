package helm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/resource"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

// Plugin translates helm-style commands into invocations of the real
// binary. Beyond pass-through, it can resolve the resources declared by a
// release's manifest so the watch core can track an install or uninstall.
type Plugin struct {
	config *config.Config
	runner tool.Runner
}

// New returns a helm plugin backed by the argument runner.
func New(cfg *config.Config, runner tool.Runner) *Plugin {
	return &Plugin{
		config: cfg,
		runner: runner,
	}
}

// Name implements shell.Plugin.
func (p *Plugin) Name() string {
	return "helm"
}

// Run assembles and executes one helm invocation.
func (p *Plugin) Run(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("No helm subcommand given")
	}

	command := fmt.Sprintf(
		"%s %s",
		p.config.HelmPath,
		strings.Join(args, " "),
	)

	output, err := p.runner.Run(ctx, command)
	return string(output), err
}

// ReleaseRefs resolves the resources declared by a release's rendered
// manifest, for handing to the watch core after an install or uninstall.
func (p *Plugin) ReleaseRefs(
	ctx context.Context,
	release string,
	namespace string,
) ([]resource.Ref, error) {
	if namespace == "" {
		namespace = p.config.Namespace
	}

	command := fmt.Sprintf(
		"%s get manifest %s -n %s",
		p.config.HelmPath,
		release,
		namespace,
	)

	manifest, err := p.runner.Run(ctx, command)
	if err != nil {
		return nil, fmt.Errorf(
			"Error fetching manifest for release %s: %+v",
			release,
			err,
		)
	}

	return resource.RefsFromManifest(manifest, namespace)
}
