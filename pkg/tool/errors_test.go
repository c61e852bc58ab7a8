package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&CodedError{Code: CodeNotFound}))
	assert.True(
		t,
		IsNotFound(
			fmt.Errorf("query failed: %w", &CodedError{Code: CodeNotFound}),
		),
	)
	assert.False(t, IsNotFound(&CodedError{Code: CodeInternal}))
	assert.False(t, IsNotFound(errors.New("some other error")))
	assert.False(t, IsNotFound(nil))
}

func TestCodedFromOutput(t *testing.T) {
	err := codedFromOutput(
		[]byte(`Error from server (NotFound): deployments.apps "nginx" not found`),
		errors.New("exit status 1"),
	)
	assert.True(t, IsNotFound(err))

	err = codedFromOutput(
		[]byte("Error: release: not found"),
		errors.New("exit status 1"),
	)
	assert.True(t, IsNotFound(err))

	err = codedFromOutput(
		[]byte("Unable to connect to the server: dial tcp: i/o timeout"),
		errors.New("exit status 1"),
	)
	assert.False(t, IsNotFound(err))

	codedErr := &CodedError{}
	require.True(t, errors.As(err, &codedErr))
	assert.Equal(t, CodeInternal, codedErr.Code)
}

func TestFakeRunner(t *testing.T) {
	ctx := context.Background()

	runner := &FakeRunner{
		Results: []FakeResult{
			{Output: []byte("first")},
			{Err: &CodedError{Code: CodeNotFound}},
		},
	}

	output, err := runner.Run(ctx, "kubectl get pods")
	require.NoError(t, err)
	assert.Equal(t, "first", string(output))

	_, err = runner.Run(ctx, "kubectl get pods")
	assert.True(t, IsNotFound(err))

	// Script exhausted; last result repeats.
	_, err = runner.Run(ctx, "kubectl get pods")
	assert.True(t, IsNotFound(err))

	assert.Equal(t, 3, len(runner.Commands))
}

func TestTableQuerier(t *testing.T) {
	ctx := context.Background()

	runner := &FakeRunner{
		Results: []FakeResult{
			{
				Output: []byte(
					"NAME    STATUS\nnginx   Running\n",
				),
			},
		},
	}

	querier := &TableQuerier{Runner: runner}
	parsed, err := querier.Query(ctx, "kubectl get deployment nginx")
	require.NoError(t, err)

	require.Equal(t, 1, len(parsed.Rows))
	status, _ := parsed.Rows[0].Get("STATUS")
	assert.Equal(t, "Running", status)
	assert.Equal(
		t,
		[]string{"kubectl get deployment nginx"},
		runner.Commands,
	)
}
