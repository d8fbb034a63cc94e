package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	lua "github.com/yuin/gopher-lua"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/exercises"
	"github.com/git-mastery/gitmastery/internal/progress"
	"github.com/git-mastery/gitmastery/internal/progress/sqlite"
	"github.com/git-mastery/gitmastery/internal/script"
	"github.com/git-mastery/gitmastery/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [exercise]",
	Short: "Verify your solution to an exercise",
	Long: `Verify runs the exercise's own verification hook against your working
copy. Run it from inside the exercise folder; the folder name is used as
the exercise name unless one is given explicitly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if _, err := config.FindRoot(cwd); err != nil {
		return fmt.Errorf("verification must run inside a gitmastery workspace")
	}

	exercise := filepath.Base(cwd)
	if len(args) == 1 {
		exercise = args[0]
	}

	repo, err := exercises.Open(ctx, appCfg.Source(cwd))
	if err != nil {
		return err
	}
	defer repo.Close()

	eng := script.NewEngine()
	defer eng.Close()

	ns, err := eng.Load(ctx, repo, exercise+"/verify.lua")
	if err != nil {
		return err
	}

	result, found, err := ns.ExecuteFunction("verify", map[string]lua.LValue{
		"repo_path": lua.LString(cwd),
		"exercise":  lua.LString(exercise),
		"verbose":   lua.LBool(verboseFlag),
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("exercise %s does not define a verify hook", exercise)
	}

	passed := lua.LVAsBool(result)
	if err := recordAttempt(cmd, exercise, passed); err != nil {
		ui.Warnf("Could not record the attempt: %v", err)
	}

	if !passed {
		ui.Errorf("✗ %s: not quite there yet, keep going!", exercise)
		return fmt.Errorf("verification failed")
	}
	ui.Successf("✓ %s: verified, well done!", exercise)
	return nil
}

func recordAttempt(cmd *cobra.Command, exercise string, passed bool) error {
	store, err := sqlite.Open(appCfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	status := progress.StatusFailed
	if passed {
		status = progress.StatusPassed
	}
	return store.RecordAttempt(cmd.Context(), &progress.Attempt{
		ID:       uuid.NewString(),
		Exercise: exercise,
		Status:   status,
	})
}
