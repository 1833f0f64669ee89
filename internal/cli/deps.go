package cli

import (
	"context"

	"github.com/kris-hansen/ryt/internal/module"
)

func (a *App) installModules(ctx context.Context, infos []*module.Info) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		out, err := a.PM.Install(ctx, info.Path)
		if err != nil {
			return []Line{errorLine(info.PackageName, err)}
		}
		return outputLines(info.PackageName, out)
	})
}

// linkModules symlinks every discovered module into the node_modules of the
// modules that depend on it
func (a *App) linkModules(infos []*module.Info, cmd LinkCommand) Result {
	links := module.PairDependencies(infos)

	result := Result{}
	for i, info := range infos {
		for _, link := range links[i] {
			if !cmd.DryRun {
				if err := module.ApplyLink(a.Fs, link); err != nil {
					result = append(result, errorLine(info.PackageName, err))
					continue
				}
			}
			result = append(result, Line{Module: info.PackageName, Text: link.Dependency + " -> " + link.Target})
		}
	}
	return result
}

func (a *App) cleanModules(ctx context.Context, infos []*module.Info, cmd CleanCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		out, err := a.VCS.Clean(ctx, info.Path, cmd.Force)
		if err != nil {
			return []Line{errorLine(info.PackageName, err)}
		}
		return outputLines(info.PackageName, out)
	})
}
