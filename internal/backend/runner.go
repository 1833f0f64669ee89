// Package backend runs git and npm against a single module directory.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// quietEnv keeps subprocesses from paging or prompting.
var quietEnv = []string{
	"PAGER=cat",
	"GIT_PAGER=cat",
	"GIT_TERMINAL_PROMPT=0",
	"TERM=dumb",
}

// Runner executes one external tool
type Runner struct {
	name string
	args []string
	env  []string
}

// NewRunner creates a runner for a command line such as "git" or
// "pnpm --silent". Extra words become leading arguments.
func NewRunner(command string) (*Runner, error) {
	parts := parseCommand(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	env := append(os.Environ(), quietEnv...)

	return &Runner{
		name: parts[0],
		args: parts[1:],
		env:  env,
	}, nil
}

// Name returns the executable name
func (r *Runner) Name() string {
	return r.name
}

// Run executes the tool in dir and returns its combined output. On failure
// the error carries the output text.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmdArgs := append(append([]string{}, r.args...), args...)

	cmd := exec.CommandContext(ctx, r.name, cmdArgs...)
	cmd.Dir = dir
	cmd.Env = r.env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), &CommandError{
			Command: strings.Join(append([]string{r.name}, cmdArgs...), " "),
			Dir:     dir,
			Output:  strings.TrimSpace(out.String()),
			Err:     err,
		}
	}

	return out.String(), nil
}

// CommandError is a failed tool invocation
type CommandError struct {
	Command string
	Dir     string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed in %s: %v", e.Command, e.Dir, e.Err)
	}
	return fmt.Sprintf("%s failed in %s: %s: %v", e.Command, e.Dir, e.Output, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 when the process did not run.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// parseCommand splits a command string into parts
func parseCommand(cmd string) []string {
	parts := []string{}
	var current strings.Builder
	inQuote := false

	for _, char := range cmd {
		switch {
		case char == '"':
			inQuote = !inQuote
		case char == ' ' && !inQuote:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
