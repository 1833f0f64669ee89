package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
)

// Git runs git commands scoped to one module
type Git struct {
	runner *Runner
}

// NewGit creates a git backend for the given command line
func NewGit(command string) (*Git, error) {
	runner, err := NewRunner(command)
	if err != nil {
		return nil, fmt.Errorf("invalid git command: %w", err)
	}
	return &Git{runner: runner}, nil
}

// Status returns `git status --porcelain --branch` output for the module at path
func (g *Git) Status(ctx context.Context, path string) (string, error) {
	return g.runner.Run(ctx, path,
		"--git-dir="+filepath.Join(path, ".git"),
		"--work-tree="+path,
		"status", "--porcelain", "--branch",
	)
}

// Log returns the last n commits, one per line
func (g *Git) Log(ctx context.Context, path string, n int) (string, error) {
	return g.runner.Run(ctx, path, "log", "--oneline", "-n", cast.ToString(n))
}

// Fetch fetches all branches of all remotes
func (g *Git) Fetch(ctx context.Context, path string) (string, error) {
	return g.runner.Run(ctx, path, "fetch", "--all", "--prune")
}

// Merge fast-forwards the current branch to its upstream
func (g *Git) Merge(ctx context.Context, path string) (string, error) {
	return g.runner.Run(ctx, path, "merge", "--ff-only", "@{upstream}")
}

// Pull fetches and fast-forwards the current branch
func (g *Git) Pull(ctx context.Context, path string) (string, error) {
	return g.runner.Run(ctx, path, "pull", "--ff-only")
}

// Push pushes the current branch
func (g *Git) Push(ctx context.Context, path string) (string, error) {
	return g.runner.Run(ctx, path, "push")
}

// Clean removes ignored node_modules and package-lock.json. With force it
// removes every ignored and untracked file.
func (g *Git) Clean(ctx context.Context, path string, force bool) (string, error) {
	if force {
		return g.runner.Run(ctx, path, "clean", "-fdxq")
	}
	return g.runner.Run(ctx, path, "clean", "-fdXq", "--", "node_modules", "package-lock.json")
}

// HasRef reports whether ref resolves in the module
func (g *Git) HasRef(ctx context.Context, path, ref string) (bool, error) {
	_, err := g.runner.Run(ctx, path, "rev-parse", "--verify", "--quiet", ref)
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode() == 1 {
		return false, nil
	}
	return false, err
}

// HasBranch reports whether a local branch exists
func (g *Git) HasBranch(ctx context.Context, path, branch string) (bool, error) {
	return g.HasRef(ctx, path, "refs/heads/"+branch)
}

// Checkout switches to an existing branch
func (g *Git) Checkout(ctx context.Context, path, branch string) (string, error) {
	return g.runner.Run(ctx, path, "checkout", branch)
}

// CheckoutNew creates branch and switches to it
func (g *Git) CheckoutNew(ctx context.Context, path, branch string) (string, error) {
	return g.runner.Run(ctx, path, "checkout", "-b", branch)
}

// CheckoutReset creates or resets branch to HEAD and switches to it
func (g *Git) CheckoutReset(ctx context.Context, path, branch string) (string, error) {
	return g.runner.Run(ctx, path, "checkout", "-B", branch)
}

// DeleteBranch deletes a merged local branch
func (g *Git) DeleteBranch(ctx context.Context, path, branch string) (string, error) {
	return g.runner.Run(ctx, path, "branch", "-d", branch)
}

// CommitsSince counts commits reachable from HEAD but not from ref
func (g *Git) CommitsSince(ctx context.Context, path, ref string) (int, error) {
	out, err := g.runner.Run(ctx, path, "rev-list", "--count", ref+"..HEAD")
	if err != nil {
		return 0, err
	}
	n, err := cast.ToIntE(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", strings.TrimSpace(out), err)
	}
	return n, nil
}
