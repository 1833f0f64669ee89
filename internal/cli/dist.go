package cli

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/kris-hansen/ryt/internal/module"
)

// nextVersion bumps v by a release level
func nextVersion(v *semver.Version, level string) (semver.Version, error) {
	switch level {
	case "major":
		return v.IncMajor(), nil
	case "minor":
		return v.IncMinor(), nil
	case "patch":
		return v.IncPatch(), nil
	default:
		return semver.Version{}, fmt.Errorf("unknown release level %q", level)
	}
}

// distModules bumps and publishes every module with commits since its last
// version tag
func (a *App) distModules(ctx context.Context, infos []*module.Info, cmd DistCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		name := info.PackageName

		current, err := semver.NewVersion(info.PackageVersion)
		if err != nil {
			return []Line{errorLine(name, fmt.Errorf("invalid version %q: %w", info.PackageVersion, err))}
		}
		next, err := nextVersion(current, cmd.Level)
		if err != nil {
			return []Line{errorLine(name, err)}
		}

		changed, err := a.changedSinceRelease(ctx, info.Path, "v"+current.String())
		if err != nil {
			return []Line{errorLine(name, err)}
		}
		if !changed {
			return []Line{{Module: name, Text: "unchanged"}}
		}

		bump := Line{Module: name, Text: current.String() + " -> " + next.String()}
		if cmd.DryRun {
			return []Line{bump}
		}

		if _, err := a.PM.Version(ctx, info.Path, cmd.Level); err != nil {
			return []Line{errorLine(name, err)}
		}
		if _, err := a.PM.Publish(ctx, info.Path); err != nil {
			return []Line{errorLine(name, err)}
		}
		return []Line{bump}
	})
}

// changedSinceRelease reports whether HEAD has commits after tag. A module
// that was never tagged counts as changed.
func (a *App) changedSinceRelease(ctx context.Context, path, tag string) (bool, error) {
	tagged, err := a.VCS.HasRef(ctx, path, "refs/tags/"+tag)
	if err != nil {
		return false, err
	}
	if !tagged {
		return true, nil
	}
	n, err := a.VCS.CommitsSince(ctx, path, tag)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
