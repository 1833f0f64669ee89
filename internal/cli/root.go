package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kris-hansen/ryt/internal/config"
)

// NewRootCmd returns the ryt root command. Flag parsing is left to the
// argv package so that flags may appear anywhere on the command line.
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "ryt <command> [<args>]",
		Short:              "Tooling for JavaScript workspaces",
		Long:               `ryt finds every package under RYT_PATH that lives in its own git repository and runs git and npm across all of them.`,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE:               runRoot,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	app, err := NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), config.EnvFromOS(), cwd, afero.NewOsFs())
	if err != nil {
		return err
	}

	return app.Run(cmd.Context(), args)
}
