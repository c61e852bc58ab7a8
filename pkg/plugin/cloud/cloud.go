package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/table"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

// Plugin passes commands through to the cloud-provider CLI. Cloud
// operations have no watch semantics; tabular output is parsed only so the
// view can render it consistently with the other plugins.
type Plugin struct {
	config *config.Config
	runner tool.Runner
}

// New returns a cloud plugin backed by the argument runner.
func New(cfg *config.Config, runner tool.Runner) *Plugin {
	return &Plugin{
		config: cfg,
		runner: runner,
	}
}

// Name implements shell.Plugin.
func (p *Plugin) Name() string {
	return "cloud"
}

// Run assembles and executes one cloud CLI invocation.
func (p *Plugin) Run(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("No cloud subcommand given")
	}

	command := fmt.Sprintf(
		"%s %s",
		p.config.CloudPath,
		strings.Join(args, " "),
	)

	output, err := p.runner.Run(ctx, command)
	return string(output), err
}

// Table parses a cloud CLI command's output into a structured table.
func (p *Plugin) Table(
	ctx context.Context,
	args []string,
) (*table.Table, error) {
	output, err := p.Run(ctx, args)
	if err != nil {
		return nil, err
	}
	return table.Parse([]byte(output))
}
