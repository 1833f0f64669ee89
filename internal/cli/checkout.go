package cli

import (
	"context"

	"github.com/kris-hansen/ryt/internal/module"
)

func (a *App) checkoutModules(ctx context.Context, infos []*module.Info, cmd CheckoutCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		name := info.PackageName

		if cmd.Mode == CheckoutReset {
			if cmd.DryRun {
				return []Line{{Module: name, Text: "checkout -B " + cmd.Branch}}
			}
			out, err := a.VCS.CheckoutReset(ctx, info.Path, cmd.Branch)
			return checkoutLines(name, cmd.Branch, out, err)
		}

		exists, err := a.VCS.HasBranch(ctx, info.Path, cmd.Branch)
		if err != nil {
			return []Line{errorLine(name, err)}
		}

		switch {
		case exists && cmd.DryRun:
			return []Line{{Module: name, Text: "checkout " + cmd.Branch}}
		case exists:
			out, err := a.VCS.Checkout(ctx, info.Path, cmd.Branch)
			return checkoutLines(name, cmd.Branch, out, err)
		case cmd.Mode == CheckoutCreate && cmd.DryRun:
			return []Line{{Module: name, Text: "checkout -b " + cmd.Branch}}
		case cmd.Mode == CheckoutCreate:
			out, err := a.VCS.CheckoutNew(ctx, info.Path, cmd.Branch)
			return checkoutLines(name, cmd.Branch, out, err)
		default:
			return []Line{{Module: name, Text: "skip, no branch " + cmd.Branch}}
		}
	})
}

func checkoutLines(name, branch, out string, err error) []Line {
	if err != nil {
		return []Line{errorLine(name, err)}
	}
	lines := outputLines(name, out)
	if len(lines) == 0 {
		lines = append(lines, Line{Module: name, Text: "on " + branch})
	}
	return lines
}

func (a *App) deleteModules(ctx context.Context, infos []*module.Info, cmd DeleteCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		name := info.PackageName

		exists, err := a.VCS.HasBranch(ctx, info.Path, cmd.Branch)
		if err != nil {
			return []Line{errorLine(name, err)}
		}
		if !exists {
			return []Line{{Module: name, Text: "skip, no branch " + cmd.Branch}}
		}
		if cmd.DryRun {
			return []Line{{Module: name, Text: "delete " + cmd.Branch}}
		}

		out, err := a.VCS.DeleteBranch(ctx, info.Path, cmd.Branch)
		if err != nil {
			return []Line{errorLine(name, err)}
		}
		return outputLines(name, out)
	})
}
