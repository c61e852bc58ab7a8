package shell

import (
	"context"
	"fmt"
	"sort"
)

// Plugin handles all commands for one external tool.
type Plugin interface {
	// Name is the first command token this plugin claims, e.g.
	// "kubectl".
	Name() string

	// Run handles one command, returning the text to display.
	Run(ctx context.Context, args []string) (string, error)
}

// Registry dispatches typed commands to the plugin that claims their first
// token.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: map[string]Plugin{},
	}
}

// Register adds a plugin; the last registration for a name wins.
func (r *Registry) Register(plugin Plugin) {
	r.plugins[plugin.Name()] = plugin
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	names := []string{}
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes argv to the plugin claiming argv[0].
func (r *Registry) Dispatch(
	ctx context.Context,
	argv []string,
) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("No command given")
	}

	plugin, ok := r.plugins[argv[0]]
	if !ok {
		return "", fmt.Errorf(
			"Unknown command %q; known commands: %+v",
			argv[0],
			r.Names(),
		)
	}

	return plugin.Run(ctx, argv[1:])
}
