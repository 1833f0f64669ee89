package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/kris-hansen/ryt/internal/config"
)

// fakeVCS is an in-memory VCS keyed by module path
type fakeVCS struct {
	mu       sync.Mutex
	status   map[string]string
	branches map[string]map[string]bool
	tags     map[string]map[string]bool
	since    map[string]int
	fail     map[string]error
	calls    []string
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		status:   map[string]string{},
		branches: map[string]map[string]bool{},
		tags:     map[string]map[string]bool{},
		since:    map[string]int{},
		fail:     map[string]error{},
	}
}

func (f *fakeVCS) record(op, path string, extra ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, strings.Join(append([]string{op, path}, extra...), " "))
	if err, ok := f.fail[op+" "+path]; ok {
		return err
	}
	return nil
}

func (f *fakeVCS) callsFor(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, op+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeVCS) Status(ctx context.Context, path string) (string, error) {
	if err := f.record("status", path); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if out, ok := f.status[path]; ok {
		return out, nil
	}
	return "## main\n", nil
}

func (f *fakeVCS) Log(ctx context.Context, path string, n int) (string, error) {
	if err := f.record("log", path, fmt.Sprint(n)); err != nil {
		return "", err
	}
	return fmt.Sprintf("abc1234 last commit (%d)\n", n), nil
}

func (f *fakeVCS) Fetch(ctx context.Context, path string) (string, error) {
	return "", f.record("fetch", path)
}

func (f *fakeVCS) Merge(ctx context.Context, path string) (string, error) {
	return "Already up to date.\n", f.record("merge", path)
}

func (f *fakeVCS) Pull(ctx context.Context, path string) (string, error) {
	return "Already up to date.\n", f.record("pull", path)
}

func (f *fakeVCS) Push(ctx context.Context, path string) (string, error) {
	return "", f.record("push", path)
}

func (f *fakeVCS) Clean(ctx context.Context, path string, force bool) (string, error) {
	return "", f.record("clean", path, fmt.Sprint(force))
}

func (f *fakeVCS) HasRef(ctx context.Context, path, ref string) (bool, error) {
	if err := f.record("has-ref", path, ref); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags[path][strings.TrimPrefix(ref, "refs/tags/")], nil
}

func (f *fakeVCS) HasBranch(ctx context.Context, path, branch string) (bool, error) {
	if err := f.record("has-branch", path, branch); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branches[path][branch], nil
}

func (f *fakeVCS) Checkout(ctx context.Context, path, branch string) (string, error) {
	return fmt.Sprintf("Switched to branch '%s'\n", branch), f.record("checkout", path, branch)
}

func (f *fakeVCS) CheckoutNew(ctx context.Context, path, branch string) (string, error) {
	return fmt.Sprintf("Switched to a new branch '%s'\n", branch), f.record("checkout-new", path, branch)
}

func (f *fakeVCS) CheckoutReset(ctx context.Context, path, branch string) (string, error) {
	return "", f.record("checkout-reset", path, branch)
}

func (f *fakeVCS) DeleteBranch(ctx context.Context, path, branch string) (string, error) {
	return fmt.Sprintf("Deleted branch %s (was abc1234).\n", branch), f.record("delete", path, branch)
}

func (f *fakeVCS) CommitsSince(ctx context.Context, path, ref string) (int, error) {
	if err := f.record("since", path, ref); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.since[path], nil
}

// fakePM records package manager calls
type fakePM struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func (p *fakePM) record(op, path string, extra ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, strings.Join(append([]string{op, path}, extra...), " "))
	if err, ok := p.fail[op+" "+path]; ok {
		return err
	}
	return nil
}

func (p *fakePM) Install(ctx context.Context, path string) (string, error) {
	return "added 3 packages\n", p.record("install", path)
}

func (p *fakePM) Version(ctx context.Context, path, level string) (string, error) {
	return "", p.record("version", path, level)
}

func (p *fakePM) Publish(ctx context.Context, path string) (string, error) {
	return "", p.record("publish", path)
}

type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vcs    *fakeVCS
	pm     *fakePM
}

func newTestApp(t *testing.T, fs afero.Fs, env config.Env) *testApp {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	vcs, pm := newFakeVCS(), &fakePM{fail: map[string]error{}}

	return &testApp{
		App: &App{
			Stdout: stdout,
			Stderr: stderr,
			Env:    env,
			Cwd:    "/",
			Fs:     fs,
			Config: config.Default(),
			VCS:    vcs,
			PM:     pm,
			Logger: log.NewWithOptions(stderr, log.Options{Level: log.DebugLevel}),
		},
		stdout: stdout,
		stderr: stderr,
		vcs:    vcs,
		pm:     pm,
	}
}

// addModule creates a module with the given manifest under fs
func addModule(t *testing.T, fs afero.Fs, dir, manifest string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "package.json"), []byte(manifest), 0644))
}

func stdoutLines(a *testApp) []string {
	out := strings.TrimRight(a.stdout.String(), "\n")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func semverMust(t *testing.T, v string) *semver.Version {
	t.Helper()
	parsed, err := semver.NewVersion(v)
	require.NoError(t, err)
	return parsed
}
