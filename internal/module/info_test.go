package module

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	out   map[string]string
	fail  map[string]bool
	delay map[string]time.Duration
	calls atomic.Int32
}

func (f *fakeStatus) Status(ctx context.Context, path string) (string, error) {
	f.calls.Add(1)
	if d := f.delay[path]; d > 0 {
		time.Sleep(d)
	}
	if f.fail[path] {
		return "", errors.New("fatal: not a git repository")
	}
	if out, ok := f.out[path]; ok {
		return out, nil
	}
	return "## main\n", nil
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   Status
	}{
		{
			name:   "clean",
			output: "## main...origin/main\n",
			want:   Status{Branch: "main...origin/main", Files: []string{}, FileNames: []string{}},
		},
		{
			name:   "untracked and modified",
			output: "## No commits yet on master\n?? hey\n?? package.json\n M src/index.js\n",
			want: Status{
				Branch:    "No commits yet on master",
				Files:     []string{"?? hey", "?? package.json", " M src/index.js"},
				FileNames: []string{"hey", "package.json", "src/index.js"},
			},
		},
		{
			name:   "rename uses the new name",
			output: "## feature [ahead 2]\nR  old.js -> new.js",
			want: Status{
				Branch:    "feature [ahead 2]",
				Files:     []string{"R  old.js -> new.js"},
				FileNames: []string{"new.js"},
			},
		},
		{
			name:   "empty output",
			output: "",
			want:   Status{Files: []string{}, FileNames: []string{}},
		},
		{
			name:   "crlf",
			output: "## main\r\n?? a\r\n",
			want:   Status{Branch: "main", Files: []string{"?? a"}, FileNames: []string{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatus(tt.output)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want.Files) == 0, got.Clean())
		})
	}
}

func TestReadManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/m/package.json", []byte(`{
		"name": "ayo",
		"version": "0.0.1",
		"dependencies": {"b": "^1.0.0"},
		"devDependencies": {"a": "*", "b": "^1.0.0"},
		"peerDependencies": {"c": "*"}
	}`), 0644))

	m, err := ReadManifest(fs, "/m")
	require.NoError(t, err)
	assert.Equal(t, "ayo", m.Name)
	assert.Equal(t, "0.0.1", m.Version)
	assert.Equal(t, []string{"a", "b", "c"}, m.DependencyNames())
}

func TestReadManifest_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/m/package.json", []byte(`{"private": true}`), 0644))

	m, err := ReadManifest(fs, "/m")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, m.Name)
	assert.Equal(t, DefaultVersion, m.Version)
	assert.Empty(t, m.DependencyNames())
}

func TestReadManifest_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad/package.json", []byte(`{"name":`), 0644))

	_, err := ReadManifest(fs, "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing/package.json")

	_, err = ReadManifest(fs, "/bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest /bad/package.json")
}

func TestReader_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	makeModule(t, fs, "/ws/a")
	vcs := &fakeStatus{out: map[string]string{"/ws/a": "## dev\n?? hey\n"}}

	info, err := NewReader(fs, vcs, 4).Read(context.Background(), "/ws/a")
	require.NoError(t, err)

	assert.Equal(t, "/ws/a", info.Path)
	assert.Equal(t, "ayo", info.PackageName)
	assert.Equal(t, "0.0.1", info.PackageVersion)
	assert.Equal(t, "dev", info.Branch)
	assert.Equal(t, []string{"?? hey"}, info.StatusFiles)
	assert.Equal(t, []string{"hey"}, info.StatusFileNames)
	require.NotNil(t, info.Manifest)
}

func TestReader_Read_Failures(t *testing.T) {
	fs := afero.NewMemMapFs()
	makeModule(t, fs, "/ws/a")
	require.NoError(t, fs.MkdirAll("/ws/nomanifest/.git", 0755))

	r := NewReader(fs, &fakeStatus{fail: map[string]bool{"/ws/a": true}}, 0)

	info, err := r.Read(context.Background(), "/ws/a")
	require.Error(t, err)
	assert.Nil(t, info)
	assert.Contains(t, err.Error(), "/ws/a")
	assert.Contains(t, err.Error(), "not a git repository")

	info, err = r.Read(context.Background(), "/ws/nomanifest")
	require.Error(t, err)
	assert.Nil(t, info)
	assert.Contains(t, err.Error(), "/ws/nomanifest/package.json")
}

func TestReader_ReadAll_PreservesOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := []string{"/ws/slow", "/ws/mid", "/ws/fast"}
	for i, p := range paths {
		require.NoError(t, fs.MkdirAll(filepath.Join(p, ".git"), 0755))
		manifest := fmt.Sprintf(`{"name":"m%d","version":"1.0.%d"}`, i, i)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(p, "package.json"), []byte(manifest), 0644))
	}
	vcs := &fakeStatus{delay: map[string]time.Duration{
		"/ws/slow": 60 * time.Millisecond,
		"/ws/mid":  30 * time.Millisecond,
	}}

	infos, err := NewReader(fs, vcs, 3).ReadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	for i, info := range infos {
		assert.Equal(t, paths[i], info.Path)
		assert.Equal(t, fmt.Sprintf("m%d", i), info.PackageName)
	}
}

func TestReader_ReadAll_FailsWholeBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	makeModule(t, fs, "/ws/a")
	makeModule(t, fs, "/ws/b")
	makeModule(t, fs, "/ws/c")
	vcs := &fakeStatus{fail: map[string]bool{"/ws/b": true, "/ws/c": true}}

	infos, err := NewReader(fs, vcs, 1).ReadAll(context.Background(), []string{"/ws/a", "/ws/b", "/ws/c"})
	require.Error(t, err)
	assert.Nil(t, infos)
	assert.Contains(t, err.Error(), "/ws/b")
	assert.Contains(t, err.Error(), "/ws/c")
	assert.Equal(t, int32(3), vcs.calls.Load())
}

func TestReader_ReadAll_Empty(t *testing.T) {
	infos, err := NewReader(afero.NewMemMapFs(), &fakeStatus{}, 2).ReadAll(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, infos)
}

type gitStatus struct{}

func (gitStatus) Status(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "--git-dir="+filepath.Join(path, ".git"), "--work-tree="+path, "status", "--porcelain", "--branch")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

func TestReader_Read_FreshRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	out, err := exec.Command("git", "init", "--quiet", dir).CombinedOutput()
	require.NoError(t, err, string(out))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"ayo","version":"0.0.1"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hey"), nil, 0644))

	info, err := NewReader(afero.NewOsFs(), gitStatus{}, 1).Read(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"?? hey", "?? package.json"}, info.StatusFiles)
	assert.Equal(t, []string{"hey", "package.json"}, info.StatusFileNames)

	raw, err := gitStatus{}.Status(context.Background(), dir)
	require.NoError(t, err)
	firstLine := strings.SplitN(raw, "\n", 2)[0]
	assert.Equal(t, strings.TrimPrefix(firstLine, "## "), info.Branch)
	assert.NotEmpty(t, info.Branch)
}
