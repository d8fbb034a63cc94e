package main

import (
	"github.com/spf13/cobra"

	"github.com/git-mastery/gitmastery/internal/progress"
	"github.com/git-mastery/gitmastery/internal/progress/sqlite"
	"github.com/git-mastery/gitmastery/internal/ui"
)

var progressCmd = &cobra.Command{
	Use:   "progress [exercise]",
	Short: "Show your exercise progress",
	Long: `Progress lists every downloaded exercise with its attempt count and
completion state. With an exercise name it lists that exercise's
individual attempts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	store, err := sqlite.Open(appCfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		attempts, err := store.ListAttempts(ctx, args[0])
		if err != nil {
			return err
		}
		if len(attempts) == 0 {
			ui.Printf("No attempts recorded for %s yet.\n", args[0])
			return nil
		}
		for _, a := range attempts {
			marker := "✗"
			if a.Status == progress.StatusPassed {
				marker = "✓"
			}
			ui.Printf("%s  %s  %s\n", marker, a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Status)
		}
		return nil
	}

	summaries, err := store.Summaries(ctx)
	if err != nil {
		return err
	}
	ui.Printf("%s", progress.RenderSummaries(summaries))
	return nil
}
