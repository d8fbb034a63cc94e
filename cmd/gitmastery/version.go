package main

import (
	"github.com/spf13/cobra"

	"github.com/git-mastery/gitmastery/internal/ui"
	"github.com/git-mastery/gitmastery/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the app version",
	Run: func(_ *cobra.Command, _ []string) {
		ui.Printf("gitmastery %s\n", version.Current)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
