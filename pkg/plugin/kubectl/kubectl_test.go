package kubectl

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/kube"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

func TestDeleteResolvesKind(t *testing.T) {
	discoverResources = func(kubeConfigPath string) ([]kube.APIResource, error) {
		return []kube.APIResource{
			{
				Name:       "deployments",
				ShortNames: []string{"deploy"},
				APIVersion: "apps/v1",
				Namespaced: true,
				Kind:       "Deployment",
			},
		}, nil
	}
	defer func() {
		discoverResources = kube.Discover
	}()

	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{
				Output: []byte("deployment.apps \"nginx\" deleted"),
			},
		},
	}
	plugin := New(config.Default(), runner)
	plugin.SkipConfirm = true

	response, err := plugin.Run(
		context.Background(),
		[]string{"delete", "deploy", "nginx"},
	)
	require.NoError(t, err)
	assert.Equal(t, "deployment.apps \"nginx\" deleted", response)
	assert.Equal(
		t,
		[]string{"kubectl delete deployments nginx"},
		runner.Commands,
	)
}

func TestDeleteKeepsUnresolvableKind(t *testing.T) {
	discoverResources = func(kubeConfigPath string) ([]kube.APIResource, error) {
		return nil, fmt.Errorf("no cluster reachable")
	}
	defer func() {
		discoverResources = kube.Discover
	}()

	runner := &tool.FakeRunner{}
	plugin := New(config.Default(), runner)
	plugin.SkipConfirm = true

	ctx := context.Background()

	// The kind token passes through untouched when discovery fails.
	_, err := plugin.Run(ctx, []string{"delete", "widget", "w1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl delete widget w1"}, runner.Commands)

	// Manifest deletes have no kind token to resolve.
	_, err = plugin.Run(ctx, []string{"delete", "-f", "manifest.yaml"})
	require.NoError(t, err)
	assert.Equal(
		t,
		"kubectl delete -f manifest.yaml",
		runner.Commands[len(runner.Commands)-1],
	)
}
