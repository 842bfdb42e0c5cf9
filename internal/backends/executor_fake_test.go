package backends_test

import (
	"context"
	"strings"
)

// fakeResponse is one scripted vendor CLI outcome.
type fakeResponse struct {
	stdout string
	stderr string
	err    error
}

// fakeCall records one invocation the backend made.
type fakeCall struct {
	name  string
	args  []string
	input string
}

// fakeExecutor scripts vendor CLI behavior by full command line. Commands
// without a script entry fail, so tests notice unexpected invocations.
type fakeExecutor struct {
	responses map[string]fakeResponse
	calls     []fakeCall
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: make(map[string]fakeResponse)}
}

func (f *fakeExecutor) on(cmdline string, resp fakeResponse) {
	f.responses[cmdline] = resp
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return f.ExecuteInput(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInput(ctx context.Context, input string, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, fakeCall{name: name, args: args, input: input})
	key := strings.Join(append([]string{name}, args...), " ")
	resp, ok := f.responses[key]
	if !ok {
		return nil, []byte("unscripted command: " + key), errUnscripted
	}
	return []byte(resp.stdout), []byte(resp.stderr), resp.err
}

type unscriptedError struct{}

func (unscriptedError) Error() string { return "exit status 1" }

var errUnscripted = unscriptedError{}
