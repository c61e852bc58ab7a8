package tool

import (
	"context"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner runs an external cluster-management CLI and returns its combined
// output. Implementations are expected to map "resource does not exist"
// failures to a CodedError with code 404 so that callers can branch on them.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

var _ Runner = (*ExecRunner)(nil)

// ExecRunner is a Runner that executes real binaries found on the PATH.
type ExecRunner struct {
	// Extra environment variables to add into tool invocations.
	ExtraEnv []string
}

// Run executes the argument command string, e.g.
// "kubectl get deployment nginx -n web".
func (r *ExecRunner) Run(ctx context.Context, command string) ([]byte, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, &CodedError{
			Code:   CodeBadRequest,
			Output: "empty command",
		}
	}

	binPath, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, err
	}

	log.Debugf("Running %s with args %+v", fields[0], fields[1:])
	cmd := exec.CommandContext(ctx, binPath, fields[1:]...)

	envVars := os.Environ()
	envVars = append(envVars, r.ExtraEnv...)
	cmd.Env = envVars

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, codedFromOutput(output, err)
	}
	return output, nil
}

// FakeRunner is a Runner for testing purposes only. It records every command
// it's asked to run and replays a scripted sequence of results.
type FakeRunner struct {
	Commands []string
	Results  []FakeResult
}

// FakeResult is one scripted Run outcome.
type FakeResult struct {
	Output []byte
	Err    error
}

var _ Runner = (*FakeRunner)(nil)

// Run records the command and pops the next scripted result. Once the script
// is exhausted, the last result repeats.
func (r *FakeRunner) Run(ctx context.Context, command string) ([]byte, error) {
	r.Commands = append(r.Commands, command)

	if len(r.Results) == 0 {
		return nil, nil
	}

	index := len(r.Commands) - 1
	if index >= len(r.Results) {
		index = len(r.Results) - 1
	}

	result := r.Results[index]
	return result.Output, result.Err
}
