package cli

import (
	"context"

	"github.com/kris-hansen/ryt/internal/module"
)

// listModules prints <name>-<version> per module
func listModules(infos []*module.Info) Result {
	result := Result{}
	for _, info := range infos {
		result = append(result, Line{Text: info.PackageName + "-" + info.PackageVersion})
	}
	return result
}

// statusModules prints one line per changed file. Clean modules print nothing.
func statusModules(infos []*module.Info) Result {
	result := Result{}
	for _, info := range infos {
		for _, file := range info.StatusFiles {
			result = append(result, Line{Module: info.PackageName, Text: file})
		}
	}
	return result
}

// branchModules prints the branch descriptor per module
func branchModules(infos []*module.Info) Result {
	result := Result{}
	for _, info := range infos {
		result = append(result, Line{Module: info.PackageName, Text: info.Branch})
	}
	return result
}

func (a *App) logModules(ctx context.Context, infos []*module.Info, cmd LogCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		out, err := a.VCS.Log(ctx, info.Path, cmd.MaxCount)
		if err != nil {
			return []Line{errorLine(info.PackageName, err)}
		}
		return outputLines(info.PackageName, out)
	})
}
