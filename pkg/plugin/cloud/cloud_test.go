package cloud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeterm/kubeterm/pkg/config"
	"github.com/kubeterm/kubeterm/pkg/tool"
)

func TestCloudRun(t *testing.T) {
	ctx := context.Background()

	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{
				Output: []byte("instance started"),
			},
		},
	}
	plugin := New(config.Default(), runner)

	assert.Equal(t, "cloud", plugin.Name())

	output, err := plugin.Run(ctx, []string{"compute", "start", "web-1"})
	require.NoError(t, err)
	assert.Equal(t, "instance started", output)
	assert.Equal(
		t,
		[]string{"cloudctl compute start web-1"},
		runner.Commands,
	)

	_, err = plugin.Run(ctx, []string{})
	assert.Error(t, err)
}

func TestCloudTable(t *testing.T) {
	ctx := context.Background()

	runner := &tool.FakeRunner{
		Results: []tool.FakeResult{
			{
				Output: []byte(`NAME    ZONE        STATUS
web-1   us-east-1a  RUNNING
web-2   us-east-1b  STOPPED
`),
			},
		},
	}
	plugin := New(config.Default(), runner)

	result, err := plugin.Table(ctx, []string{"compute", "list"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NAME", "ZONE", "STATUS"}, result.Columns)
	require.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "web-1", result.Rows[0].Name())
	status, _ := result.Rows[1].Get("STATUS")
	assert.Equal(t, "STOPPED", status)
}
