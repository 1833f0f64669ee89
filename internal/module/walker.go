// Package module finds module directories under search roots and reads their
// package metadata and git state.
package module

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// VCSMarker marks a directory as version controlled
	VCSMarker = ".git"
	// ManifestFile is the package manifest file name
	ManifestFile = "package.json"
)

// DefaultIgnore lists directory names the walker never descends into
var DefaultIgnore = []string{".git", "node_modules"}

// Walker scans directory trees for modules
type Walker struct {
	fs     afero.Fs
	ignore map[string]bool
}

// NewWalker creates a walker over fs. Extra names are ignored in addition to
// DefaultIgnore.
func NewWalker(fs afero.Fs, extraIgnore ...string) *Walker {
	ignore := make(map[string]bool, len(DefaultIgnore)+len(extraIgnore))
	for _, name := range DefaultIgnore {
		ignore[name] = true
	}
	for _, name := range extraIgnore {
		ignore[name] = true
	}
	return &Walker{fs: fs, ignore: ignore}
}

// Walk returns the module paths under root in depth-first pre-order. Once a
// directory is a module its subdirectories are not scanned. Unreadable
// directories count as empty.
func (w *Walker) Walk(root string) []string {
	entries, err := afero.ReadDir(w.fs, root)
	if err != nil {
		return []string{}
	}

	if isModule(entries) {
		return []string{root}
	}

	paths := []string{}
	for _, entry := range entries {
		if !entry.IsDir() || w.ignore[entry.Name()] {
			continue
		}
		paths = append(paths, w.Walk(filepath.Join(root, entry.Name()))...)
	}
	return paths
}

// WalkAll walks every root in order and concatenates the results. Modules
// reachable from overlapping roots are reported once per root.
func (w *Walker) WalkAll(roots []string) []string {
	paths := []string{}
	for _, root := range roots {
		paths = append(paths, w.Walk(root)...)
	}
	return paths
}

// isModule reports whether entries contain both the VCS marker and the
// manifest. Entry types are not checked.
func isModule(entries []os.FileInfo) bool {
	hasVCS, hasManifest := false, false
	for _, entry := range entries {
		switch entry.Name() {
		case VCSMarker:
			hasVCS = true
		case ManifestFile:
			hasManifest = true
		}
	}
	return hasVCS && hasManifest
}
