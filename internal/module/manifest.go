package module

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	// DefaultName is used when the manifest has no name
	DefaultName = "UNNAMED"
	// DefaultVersion is used when the manifest has no version
	DefaultVersion = "0.0.0"
)

// Manifest is the subset of package.json that ryt reads
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
}

// ReadManifest reads and parses <dir>/package.json. Missing name and version
// fields get default values; a missing or malformed file is an error.
func ReadManifest(fs afero.Fs, dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if manifest.Name == "" {
		manifest.Name = DefaultName
	}
	if manifest.Version == "" {
		manifest.Version = DefaultVersion
	}

	return &manifest, nil
}

// DependencyNames returns the sorted, de-duplicated names of every declared
// dependency.
func (m *Manifest) DependencyNames() []string {
	seen := make(map[string]bool)
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies, m.OptionalDependencies} {
		for name := range deps {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
