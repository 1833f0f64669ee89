package module

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Link is a dependency of one module that is satisfied by another discovered
// module
type Link struct {
	// Module is the depending module's path
	Module string
	// Dependency is the package name of the dependency
	Dependency string
	// Target is the path of the module that provides the dependency
	Target string
}

// Path returns the node_modules entry the link replaces
func (l Link) Path() string {
	return filepath.Join(l.Module, "node_modules", filepath.FromSlash(l.Dependency))
}

// PairDependencies pairs each module's declared dependencies with the
// discovered modules that provide them. When several modules share a package
// name the first discovered one wins. A module never links to itself.
func PairDependencies(infos []*Info) [][]Link {
	providers := make(map[string]string, len(infos))
	for _, info := range infos {
		if _, ok := providers[info.PackageName]; !ok {
			providers[info.PackageName] = info.Path
		}
	}

	links := make([][]Link, len(infos))
	for i, info := range infos {
		links[i] = []Link{}
		if info.Manifest == nil {
			continue
		}
		for _, dep := range info.Manifest.DependencyNames() {
			target, ok := providers[dep]
			if !ok || target == info.Path {
				continue
			}
			links[i] = append(links[i], Link{
				Module:     info.Path,
				Dependency: dep,
				Target:     target,
			})
		}
	}

	return links
}

// ApplyLink replaces the node_modules entry for the dependency with a symlink
// to the providing module. fs must support symlinks.
func ApplyLink(fs afero.Fs, link Link) error {
	linker, ok := fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("filesystem does not support symlinks")
	}

	path := link.Path()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if err := linker.SymlinkIfPossible(link.Target, path); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", path, link.Target, err)
	}

	return nil
}
