package cli

import (
	"context"
	"fmt"

	"github.com/kris-hansen/ryt/internal/module"
)

func (a *App) syncModules(ctx context.Context, infos []*module.Info, cmd SyncCommand) Result {
	return a.eachModule(infos, func(info *module.Info) []Line {
		var (
			out string
			err error
		)
		switch cmd.Op {
		case SyncFetch:
			out, err = a.VCS.Fetch(ctx, info.Path)
		case SyncMerge:
			out, err = a.VCS.Merge(ctx, info.Path)
		case SyncPull:
			out, err = a.VCS.Pull(ctx, info.Path)
		case SyncPush:
			out, err = a.VCS.Push(ctx, info.Path)
		default:
			err = fmt.Errorf("unknown sync operation %d", cmd.Op)
		}
		if err != nil {
			return []Line{errorLine(info.PackageName, err)}
		}
		return outputLines(info.PackageName, out)
	})
}
