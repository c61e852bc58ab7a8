package helm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

const releaseManifest = `---
# Source: nginx/templates/service.yaml
apiVersion: v1
kind: Service
metadata:
  name: nginx
---
# Source: nginx/templates/deployment.yaml
apiVersion: apps/v1
kind: Deployment
metadata:
  name: nginx
`

func TestRunPassthrough(t *testing.T) {
	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{Output: []byte("release installed")},
		},
	}

	plugin := New(config.Default(), runner)

	response, err := plugin.Run(
		context.Background(),
		[]string{"install", "nginx", "bitnami/nginx"},
	)
	require.NoError(t, err)
	assert.Equal(t, "release installed", response)
	assert.Equal(
		t,
		[]string{"helm install nginx bitnami/nginx"},
		runner.Commands,
	)
}

func TestReleaseRefs(t *testing.T) {
	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{Output: []byte(releaseManifest)},
		},
	}

	plugin := New(config.Default(), runner)

	refs, err := plugin.ReleaseRefs(context.Background(), "nginx", "web")
	require.NoError(t, err)
	require.Equal(t, 2, len(refs))

	assert.Equal(t, "Service", refs[0].Kind)
	assert.Equal(t, "web", refs[0].Namespace)
	assert.Equal(t, "Deployment", refs[1].Kind)

	assert.Equal(
		t,
		[]string{"helm get manifest nginx -n web"},
		runner.Commands,
	)
}

func TestReleaseRefsError(t *testing.T) {
	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{Err: &tool.CodedError{Code: tool.CodeNotFound}},
		},
	}

	plugin := New(config.Default(), runner)

	_, err := plugin.ReleaseRefs(context.Background(), "missing", "")
	assert.Error(t, err)
}
