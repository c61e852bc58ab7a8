package tool

import (
	"context"

	"github.com/kubeterm/kubeterm/pkg/table"
)

// Querier runs a command and parses its output into a table. It's the
// query-side contract the watch core polls through.
type Querier interface {
	Query(ctx context.Context, command string) (*table.Table, error)
}

// TableQuerier adapts a Runner into a Querier.
type TableQuerier struct {
	Runner Runner
}

var _ Querier = (*TableQuerier)(nil)

// Query runs the command and parses the tabular output.
func (q *TableQuerier) Query(
	ctx context.Context,
	command string,
) (*table.Table, error) {
	output, err := q.Runner.Run(ctx, command)
	if err != nil {
		return nil, err
	}
	return table.Parse(output)
}
