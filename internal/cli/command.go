package cli

import (
	"github.com/spf13/cast"

	"github.com/kris-hansen/ryt/internal/argv"
)

// DefaultLogCount is the number of commits `log` shows per module
const DefaultLogCount = 10

// Command is one of the closed set of ryt commands
type Command interface {
	command()
}

type (
	// VersionCommand prints the version
	VersionCommand struct{}
	// UsageCommand prints the usage text
	UsageCommand struct{}
	// UnknownCommand is any unrecognized command name
	UnknownCommand struct{ Name string }
	// ConfigCommand prints the effective configuration
	ConfigCommand struct{}

	// ListCommand lists modules as name-version
	ListCommand struct{}
	// StatusCommand lists changed files per module
	StatusCommand struct{}
	// BranchCommand lists the current branch per module
	BranchCommand struct{}
	// LogCommand shows recent commits per module
	LogCommand struct{ MaxCount int }
	// InstallCommand installs dependencies in every module
	InstallCommand struct{}
	// LinkCommand symlinks modules into the node_modules of their dependents
	LinkCommand struct{ DryRun bool }
	// CleanCommand removes ignored (and with Force, untracked) files
	CleanCommand struct{ Force bool }
	// SyncCommand talks to remotes
	SyncCommand struct{ Op SyncOp }
	// CheckoutCommand switches every module to a branch
	CheckoutCommand struct {
		Branch string
		Mode   CheckoutMode
		DryRun bool
	}
	// DeleteCommand deletes a branch from every module that has it
	DeleteCommand struct {
		Branch string
		DryRun bool
	}
	// DistCommand bumps versions and publishes changed modules
	DistCommand struct {
		Level  string
		DryRun bool
	}
)

func (VersionCommand) command()  {}
func (UsageCommand) command()    {}
func (UnknownCommand) command()  {}
func (ConfigCommand) command()   {}
func (ListCommand) command()     {}
func (StatusCommand) command()   {}
func (BranchCommand) command()   {}
func (LogCommand) command()      {}
func (InstallCommand) command()  {}
func (LinkCommand) command()     {}
func (CleanCommand) command()    {}
func (SyncCommand) command()     {}
func (CheckoutCommand) command() {}
func (DeleteCommand) command()   {}
func (DistCommand) command()     {}

// SyncOp is a remote operation
type SyncOp int

const (
	// SyncFetch fetches all remotes
	SyncFetch SyncOp = iota
	// SyncMerge fast-forwards to upstream
	SyncMerge
	// SyncPull fetches and fast-forwards
	SyncPull
	// SyncPush pushes the current branch
	SyncPush
)

// String returns the git subcommand name
func (o SyncOp) String() string {
	switch o {
	case SyncFetch:
		return "fetch"
	case SyncMerge:
		return "merge"
	case SyncPull:
		return "pull"
	case SyncPush:
		return "push"
	default:
		return "unknown"
	}
}

// CheckoutMode selects how missing branches are handled
type CheckoutMode int

const (
	// CheckoutExisting switches only where the branch exists
	CheckoutExisting CheckoutMode = iota
	// CheckoutCreate creates the branch where it is missing (-b)
	CheckoutCreate
	// CheckoutReset creates or resets the branch (-B)
	CheckoutReset
)

// releaseLevels are the accepted dist arguments
var releaseLevels = map[string]bool{"major": true, "minor": true, "patch": true}

// Resolve maps parsed arguments to a command. Version beats help, help or a
// missing command name beats everything else.
func Resolve(args argv.Args) (Command, error) {
	flags := args.ParsedFlags()

	if flags.Has("v", "version") {
		return VersionCommand{}, nil
	}
	if flags.Has("h", "help") || len(args.Args) == 0 {
		return UsageCommand{}, nil
	}

	dryRun := flags.Has("n", "dry-run")
	operands := args.Operands()

	switch name := args.Command(); name {
	case "list", "ls":
		return ListCommand{}, nil
	case "status", "s":
		return StatusCommand{}, nil
	case "branch", "b":
		return BranchCommand{}, nil
	case "log", "lg":
		n, err := logCount(flags, operands)
		if err != nil {
			return nil, err
		}
		return LogCommand{MaxCount: n}, nil
	case "install", "i":
		return InstallCommand{}, nil
	case "link", "ln":
		return LinkCommand{DryRun: dryRun}, nil
	case "clean":
		return CleanCommand{Force: flags.Has("f")}, nil
	case "fetch":
		return SyncCommand{Op: SyncFetch}, nil
	case "merge":
		return SyncCommand{Op: SyncMerge}, nil
	case "pull":
		return SyncCommand{Op: SyncPull}, nil
	case "push":
		return SyncCommand{Op: SyncPush}, nil
	case "checkout", "ch":
		if len(operands) == 0 {
			return nil, usageErrorf("%s requires a <branch> argument", name)
		}
		mode := CheckoutExisting
		switch {
		case flags.Has("B"):
			mode = CheckoutReset
		case flags.Has("b"):
			mode = CheckoutCreate
		}
		return CheckoutCommand{Branch: operands[0], Mode: mode, DryRun: dryRun}, nil
	case "delete":
		if len(operands) == 0 {
			return nil, usageErrorf("delete requires a <branch> argument")
		}
		return DeleteCommand{Branch: operands[0], DryRun: dryRun}, nil
	case "dist":
		if len(operands) == 0 || !releaseLevels[operands[0]] {
			return nil, usageErrorf("dist requires one of major, minor or patch")
		}
		return DistCommand{Level: operands[0], DryRun: dryRun}, nil
	case "config":
		return ConfigCommand{}, nil
	default:
		return UnknownCommand{Name: name}, nil
	}
}

// logCount reads the commit count from --max-count=<n>, -n <n> or -<n>.
func logCount(flags argv.Flags, operands []string) (int, error) {
	n, ok, err := flags.Int("max-count", "n")
	if err != nil {
		return 0, usageErrorf("%v", err)
	}
	if !ok && flags.Has("n") && len(operands) > 0 {
		n, err = cast.ToIntE(operands[0])
		if err != nil {
			return 0, usageErrorf("invalid number %q for -n", operands[0])
		}
		ok = true
	}
	if !ok {
		n, ok = flags.Numeric()
	}
	if !ok {
		return DefaultLogCount, nil
	}
	if n < 1 {
		return 0, usageErrorf("log count must be positive, got %d", n)
	}
	return n, nil
}
