package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/progress/sqlite"
	"github.com/git-mastery/gitmastery/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup [dir]",
	Short: "Create a gitmastery workspace folder",
	Long: `Setup creates the folder all your exercises live under, marks it with
the workspace config file, and initializes the progress database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, args []string) error {
	dir := "gitmastery"
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if root, err := config.FindRoot(dir); err == nil {
		return fmt.Errorf("already inside a gitmastery workspace at %s", root.Dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating workspace folder: %w", err)
	}
	if err := config.WriteRoot(dir, config.RootConfig{}); err != nil {
		return fmt.Errorf("writing workspace config: %w", err)
	}

	store, err := sqlite.Open(appCfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("initializing progress database: %w", err)
	}
	store.Close()

	ui.Successf("Workspace created at %s", dir)
	ui.Infof("cd %s and run 'gitmastery download <exercise>' to get started.", dir)
	return nil
}
