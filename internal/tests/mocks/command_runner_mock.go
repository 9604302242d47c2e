package mocks

import (
	"context"
	"strings"
)

// CommandResult is the canned outcome of one command line.
type CommandResult struct {
	Stdout string
	Err    error
}

// CommandRunnerMock answers commands from Results, keyed by the command
// line joined with spaces (for example "git diff --cached"). Unknown
// commands return empty output.
type CommandRunnerMock struct {
	Results map[string]CommandResult
	Invoked []string
}

func (m *CommandRunnerMock) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	m.Invoked = append(m.Invoked, line)
	res := m.Results[line]
	return res.Stdout, res.Err
}
