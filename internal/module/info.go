package module

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// StatusQuerier returns porcelain branch status output for a module
type StatusQuerier interface {
	Status(ctx context.Context, path string) (string, error)
}

// Info is the manifest and git state of one module
type Info struct {
	Path            string
	PackageName     string
	PackageVersion  string
	Branch          string
	StatusFiles     []string
	StatusFileNames []string
	Manifest        *Manifest
}

// Reader builds Info records
type Reader struct {
	fs            afero.Fs
	vcs           StatusQuerier
	maxGoroutines int
}

// NewReader creates a reader. maxGoroutines bounds ReadAll; values below 1
// fall back to GOMAXPROCS.
func NewReader(fs afero.Fs, vcs StatusQuerier, maxGoroutines int) *Reader {
	if maxGoroutines < 1 {
		maxGoroutines = 0
	}
	return &Reader{fs: fs, vcs: vcs, maxGoroutines: maxGoroutines}
}

// Read reads the manifest and git status of the module at path concurrently.
// If either fails no Info is returned.
func (r *Reader) Read(ctx context.Context, path string) (*Info, error) {
	var (
		manifest *Manifest
		status   Status
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		m, err := ReadManifest(r.fs, path)
		if err != nil {
			return err
		}
		manifest = m
		return nil
	})
	p.Go(func(ctx context.Context) error {
		out, err := r.vcs.Status(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to get git status of %s: %w", path, err)
		}
		status = ParseStatus(out)
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &Info{
		Path:            path,
		PackageName:     manifest.Name,
		PackageVersion:  manifest.Version,
		Branch:          status.Branch,
		StatusFiles:     status.Files,
		StatusFileNames: status.FileNames,
		Manifest:        manifest,
	}, nil
}

// ReadAll reads every path concurrently. Results are in the order of paths.
// All paths are attempted; the returned error joins every failure.
func (r *Reader) ReadAll(ctx context.Context, paths []string) ([]*Info, error) {
	mapper := iter.Mapper[string, *Info]{MaxGoroutines: r.maxGoroutines}
	infos, err := mapper.MapErr(paths, func(path *string) (*Info, error) {
		return r.Read(ctx, *path)
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}
