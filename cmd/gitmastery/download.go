package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	lua "github.com/yuin/gopher-lua"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/exercises"
	"github.com/git-mastery/gitmastery/internal/progress/sqlite"
	"github.com/git-mastery/gitmastery/internal/script"
	"github.com/git-mastery/gitmastery/internal/ui"
)

var downloadCmd = &cobra.Command{
	Use:   "download <exercise>",
	Short: "Download an exercise into your workspace",
	Long: `Download fetches an exercise from the exercises repository, lays out
its starter files, and runs the exercise's own setup hook.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	exercise := args[0]
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := config.FindRoot(cwd)
	if err != nil {
		return fmt.Errorf("downloads must run inside a gitmastery workspace; run 'gitmastery setup' first")
	}

	repo, err := exercises.Open(ctx, appCfg.Source(cwd))
	if err != nil {
		return err
	}
	defer repo.Close()

	ok, err := repo.Exists(ctx, exercise)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no such exercise: %s", exercise)
	}

	eng := script.NewEngine()
	defer eng.Close()

	ns, err := eng.Load(ctx, repo, exercise+"/download.lua")
	if err != nil {
		return err
	}

	target := filepath.Join(root.Dir, ns.GetString("exercise_repo_name", exercise))
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists; delete it to download again", target)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating exercise folder: %w", err)
	}

	if err := downloadResources(ctx, repo, ns, exercise, target); err != nil {
		os.RemoveAll(target)
		return err
	}

	params := map[string]lua.LValue{
		"exercise":      lua.LString(exercise),
		"exercise_path": lua.LString(target),
		"verbose":       lua.LBool(verboseFlag),
	}
	if _, found, err := ns.ExecuteFunction("setup", params); err != nil {
		os.RemoveAll(target)
		return err
	} else if !found {
		ui.Debugf("exercise %s has no setup hook", exercise)
	}

	store, err := sqlite.Open(appCfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.RecordDownload(ctx, exercise); err != nil {
		return err
	}

	ui.Successf("Exercise %s downloaded to %s", exercise, target)
	return nil
}

// downloadResources copies the README plus every file the download script
// lists under its resources binding into the exercise folder.
func downloadResources(ctx context.Context, repo *exercises.Repo, ns *script.Namespace, exercise, target string) error {
	readme := exercise + "/README.md"
	if ok, err := repo.Exists(ctx, readme); err != nil {
		return err
	} else if ok {
		if err := repo.DownloadFile(ctx, readme, filepath.Join(target, "README.md")); err != nil {
			return err
		}
	}

	for _, res := range ns.Strings("resources") {
		dest := filepath.Join(target, filepath.FromSlash(res))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := repo.DownloadFile(ctx, exercise+"/"+res, dest); err != nil {
			return err
		}
	}
	return nil
}
