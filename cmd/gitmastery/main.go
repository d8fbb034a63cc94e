package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/logging"
	"github.com/git-mastery/gitmastery/internal/ui"
	"github.com/git-mastery/gitmastery/internal/version"
)

var verboseFlag bool

// appCfg and logger are initialized once in the persistent pre-run and
// shared by all subcommands, including ones dispatched from the repl.
var (
	appCfg    *config.Config
	logger    = zap.NewNop()
	setupOnce sync.Once
)

var rootCmd = &cobra.Command{
	Use:   "gitmastery",
	Short: "Git-Mastery companion app",
	Long: `The Git-Mastery companion app downloads and verifies hands-on Git
exercises from the exercises repository.

Each exercise ships its own setup and verification hooks, fetched on
demand so nothing needs a full clone of the exercises repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupOnce.Do(func() { setupApp(cmd.Context()) })
		ui.SetVerbose(verboseFlag)
		logger.Info("running command",
			zap.String("command", cmd.CommandPath()),
			zap.Strings("args", os.Args[1:]))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
}

func setupApp(ctx context.Context) {
	cfg, err := config.Load()
	if err != nil {
		ui.Warnf("Could not read app config, using defaults: %v", err)
		cfg = &config.Config{ExercisesSource: config.DefaultSource()}
	}
	appCfg = cfg
	if cfg.Log.Path != "" {
		logger = logging.Open(cfg.Log.Path)
	}
	warnIfOutdated(ctx)
}

// warnIfOutdated nags when a newer release exists. Being offline is not
// an error; the check just doesn't happen.
func warnIfOutdated(ctx context.Context) {
	current, err := version.Parse(version.Current)
	if err != nil {
		return
	}
	latest, err := version.LatestRelease(ctx, version.ReleasesURL)
	if err != nil || !current.IsBehind(latest) {
		return
	}
	ui.Warnf("Your version of the Git-Mastery app (%s) is behind the latest release (%s).", current, latest)
	ui.Warnf("We strongly recommend upgrading. See https://git-mastery.org/companion-app/index.html#updating-the-git-mastery-app")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
