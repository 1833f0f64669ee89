package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/kris-hansen/ryt/internal/argv"
	"github.com/kris-hansen/ryt/internal/backend"
	"github.com/kris-hansen/ryt/internal/config"
	"github.com/kris-hansen/ryt/internal/module"
)

// VCS is the version control backend used per module
type VCS interface {
	module.StatusQuerier
	Log(ctx context.Context, path string, n int) (string, error)
	Fetch(ctx context.Context, path string) (string, error)
	Merge(ctx context.Context, path string) (string, error)
	Pull(ctx context.Context, path string) (string, error)
	Push(ctx context.Context, path string) (string, error)
	Clean(ctx context.Context, path string, force bool) (string, error)
	HasRef(ctx context.Context, path, ref string) (bool, error)
	HasBranch(ctx context.Context, path, branch string) (bool, error)
	Checkout(ctx context.Context, path, branch string) (string, error)
	CheckoutNew(ctx context.Context, path, branch string) (string, error)
	CheckoutReset(ctx context.Context, path, branch string) (string, error)
	DeleteBranch(ctx context.Context, path, branch string) (string, error)
	CommitsSince(ctx context.Context, path, ref string) (int, error)
}

// PackageManager is the package manager backend used per module
type PackageManager interface {
	Install(ctx context.Context, path string) (string, error)
	Version(ctx context.Context, path, level string) (string, error)
	Publish(ctx context.Context, path string) (string, error)
}

// App carries everything a command invocation needs
type App struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Env        config.Env
	Cwd        string
	Fs         afero.Fs
	Config     *config.Config
	ConfigPath string
	VCS        VCS
	PM         PackageManager
	Logger     *log.Logger
}

// NewApp loads configuration and wires the git and npm backends. A broken
// config file is reported and the defaults are used instead.
func NewApp(stdout, stderr io.Writer, env config.Env, cwd string, fs afero.Fs) (*App, error) {
	logger := log.NewWithOptions(stderr, log.Options{
		Prefix: config.AppName,
		Level:  log.WarnLevel,
	})

	cfg, cfgPath, err := config.Load(fs, env)
	if err != nil {
		logger.Warn("ignoring configuration", "err", err)
		cfg, cfgPath = config.Default(), ""
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn("unknown log level", "level", cfg.LogLevel)
	} else {
		logger.SetLevel(level)
	}

	git, err := backend.NewGit(cfg.Git)
	if err != nil {
		return nil, err
	}
	npm, err := backend.NewNPM(cfg.NPM)
	if err != nil {
		return nil, err
	}

	return &App{
		Stdout:     stdout,
		Stderr:     stderr,
		Env:        env,
		Cwd:        cwd,
		Fs:         fs,
		Config:     cfg,
		ConfigPath: cfgPath,
		VCS:        git,
		PM:         npm,
		Logger:     logger,
	}, nil
}

// Run parses tokens, resolves the command and executes it.
func (a *App) Run(ctx context.Context, tokens []string) error {
	args := argv.Parse(tokens)

	cmd, err := Resolve(args)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	return a.Execute(ctx, cmd, args.ParsedFlags())
}

// Execute runs one resolved command. flags supplies the global options
// (--path, -p, --grep) for commands that discover modules.
func (a *App) Execute(ctx context.Context, cmd Command, flags argv.Flags) error {
	switch c := cmd.(type) {
	case VersionCommand:
		_, err := fmt.Fprintln(a.Stdout, Version)
		return err
	case UsageCommand:
		_, err := fmt.Fprint(a.Stdout, Usage)
		return err
	case UnknownCommand:
		if _, err := fmt.Fprintf(a.Stdout, "%s is not a %s command\n%s", c.Name, config.AppName, Usage); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure}
	case ConfigCommand:
		return a.printConfig()
	}

	infos, err := a.discover(ctx, flags)
	if err != nil {
		if errors.Is(err, ErrUsage) {
			return &ExitError{Code: ExitUsage, Err: err}
		}
		return &ExitError{Code: ExitFailure, Err: err}
	}

	result, err := a.handle(ctx, cmd, infos)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if err := result.Render(a.Stdout, a.Stderr); err != nil {
		return err
	}
	if result.Failed() {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// handle dispatches a module command over the discovered modules
func (a *App) handle(ctx context.Context, cmd Command, infos []*module.Info) (Result, error) {
	switch c := cmd.(type) {
	case ListCommand:
		return listModules(infos), nil
	case StatusCommand:
		return statusModules(infos), nil
	case BranchCommand:
		return branchModules(infos), nil
	case LogCommand:
		return a.logModules(ctx, infos, c), nil
	case InstallCommand:
		return a.installModules(ctx, infos), nil
	case LinkCommand:
		return a.linkModules(infos, c), nil
	case CleanCommand:
		return a.cleanModules(ctx, infos, c), nil
	case SyncCommand:
		return a.syncModules(ctx, infos, c), nil
	case CheckoutCommand:
		return a.checkoutModules(ctx, infos, c), nil
	case DeleteCommand:
		return a.deleteModules(ctx, infos, c), nil
	case DistCommand:
		return a.distModules(ctx, infos, c), nil
	default:
		return nil, fmt.Errorf("unhandled command %T", cmd)
	}
}

// discover resolves the search roots, walks them and reads every module
func (a *App) discover(ctx context.Context, flags argv.Flags) ([]*module.Info, error) {
	var grep *regexp.Regexp
	if pattern, ok := flags.String("grep"); ok {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, usageErrorf("invalid --grep pattern: %v", err)
		}
		grep = re
	}

	res, err := config.ResolvePath(flags, a.Env)
	if err != nil {
		return nil, err
	}
	if res.Fallback() {
		a.Logger.Warn(config.PathEnv+" not set, using "+config.FallbackPathEnv, "path", res.Path)
	}

	roots := config.SearchRoots(res.Path, a.Cwd)
	a.Logger.Debug("searching for modules", "roots", roots)

	paths := module.NewWalker(a.Fs, a.Config.Ignore...).WalkAll(roots)
	a.Logger.Debug("discovered modules", "count", len(paths))

	infos, err := module.NewReader(a.Fs, a.VCS, a.Config.Concurrency).ReadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	if grep == nil {
		return infos, nil
	}
	filtered := make([]*module.Info, 0, len(infos))
	for _, info := range infos {
		if grep.MatchString(info.PackageName) {
			filtered = append(filtered, info)
		}
	}
	return filtered, nil
}

// eachModule runs fn for every module with bounded concurrency and
// concatenates the lines in module order.
func (a *App) eachModule(infos []*module.Info, fn func(info *module.Info) []Line) Result {
	mapper := iter.Mapper[*module.Info, []Line]{MaxGoroutines: a.Config.Concurrency}
	perModule := mapper.Map(infos, func(info **module.Info) []Line {
		return fn(*info)
	})

	result := Result{}
	for _, lines := range perModule {
		result = append(result, lines...)
	}
	return result
}

func (a *App) printConfig() error {
	data, err := a.Config.Marshal()
	if err != nil {
		return err
	}
	source := a.ConfigPath
	if source == "" {
		source = "defaults"
	}
	if _, err := fmt.Fprintf(a.Stdout, "# %s\n%s", source, data); err != nil {
		return err
	}
	return nil
}
