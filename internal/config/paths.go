package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kris-hansen/ryt/internal/argv"
)

const (
	// PathEnv names the search path variable
	PathEnv = "RYT_PATH"
	// FallbackPathEnv is used as the search path when PathEnv is not set
	FallbackPathEnv = "HOME"
	// PathListSeparator separates search roots in a path string
	PathListSeparator = ":"
)

// ErrNoEntrypoint is returned when no search path can be resolved.
var ErrNoEntrypoint = errors.New("no entrypoint found; " + PathEnv + " or " + FallbackPathEnv + " environment variables required")

// PathSource records where a resolved search path came from
type PathSource int

const (
	// SourceFlag is an explicit --path or -p flag
	SourceFlag PathSource = iota
	// SourceEnv is the RYT_PATH environment variable
	SourceEnv
	// SourceFallbackEnv is the HOME environment variable
	SourceFallbackEnv
)

// String returns a human-readable source name
func (s PathSource) String() string {
	switch s {
	case SourceFlag:
		return "flag"
	case SourceEnv:
		return PathEnv
	case SourceFallbackEnv:
		return FallbackPathEnv
	default:
		return "unknown"
	}
}

// Env is a snapshot of environment variables
type Env map[string]string

// EnvFromOS snapshots the process environment
func EnvFromOS() Env {
	return EnvFromList(os.Environ())
}

// EnvFromList builds an Env from KEY=VALUE entries
func EnvFromList(entries []string) Env {
	env := make(Env, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		env[key] = value
	}
	return env
}

// Get returns the value of key, or "" when unset
func (e Env) Get(key string) string {
	return e[key]
}

// Resolution is a resolved search path string
type Resolution struct {
	Path   string
	Source PathSource
}

// Fallback reports whether the path came from the fallback variable. Callers
// are expected to warn about it.
func (r Resolution) Fallback() bool {
	return r.Source == SourceFallbackEnv
}

// ResolvePath picks the search path string in priority order: the --path or
// -p flag, RYT_PATH, then HOME.
func ResolvePath(flags argv.Flags, env Env) (Resolution, error) {
	if path, ok := flags.String("path", "p"); ok {
		return Resolution{Path: path, Source: SourceFlag}, nil
	}
	if path := env.Get(PathEnv); path != "" {
		return Resolution{Path: path, Source: SourceEnv}, nil
	}
	if path := env.Get(FallbackPathEnv); path != "" {
		return Resolution{Path: path, Source: SourceFallbackEnv}, nil
	}
	return Resolution{}, ErrNoEntrypoint
}

// SearchRoots splits a path string on ":" and resolves each segment against
// cwd. Order is preserved and duplicates are kept.
func SearchRoots(path, cwd string) []string {
	segments := strings.Split(path, PathListSeparator)
	roots := make([]string, 0, len(segments))
	for _, segment := range segments {
		if filepath.IsAbs(segment) {
			roots = append(roots, filepath.Clean(segment))
			continue
		}
		roots = append(roots, filepath.Join(cwd, segment))
	}
	return roots
}
