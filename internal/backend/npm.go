package backend

import (
	"context"
	"fmt"
)

// NPM runs package manager commands in a module
type NPM struct {
	runner *Runner
}

// NewNPM creates an npm backend for the given command line
func NewNPM(command string) (*NPM, error) {
	runner, err := NewRunner(command)
	if err != nil {
		return nil, fmt.Errorf("invalid npm command: %w", err)
	}
	return &NPM{runner: runner}, nil
}

// Install installs registered dependencies without writing a lock file
func (n *NPM) Install(ctx context.Context, path string) (string, error) {
	return n.runner.Run(ctx, path, "install", "--no-package-lock")
}

// Version bumps the package version by level, committing and tagging it
func (n *NPM) Version(ctx context.Context, path, level string) (string, error) {
	return n.runner.Run(ctx, path, "version", level)
}

// Publish publishes the package
func (n *NPM) Publish(ctx context.Context, path string) (string, error) {
	return n.runner.Run(ctx, path, "publish")
}
