package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that your environment is ready for exercises",
	Long: `Check verifies the local environment: the git binary, your git
identity configuration, and whether you are inside a gitmastery workspace.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	failures := 0

	if _, err := exec.LookPath("git"); err != nil {
		ui.Errorf("✗ git is not installed or not on PATH")
		failures++
	} else {
		ui.Successf("✓ git is installed")
	}

	for _, key := range []string{"user.name", "user.email"} {
		if v := gitConfigValue(key); v == "" {
			ui.Errorf("✗ git config %s is not set (git config --global %s ...)", key, key)
			failures++
		} else {
			ui.Successf("✓ git config %s = %s", key, v)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if root, err := config.FindRoot(cwd); err == nil {
		ui.Successf("✓ inside gitmastery workspace at %s", root.Dir)
	} else {
		ui.Warnf("! not inside a gitmastery workspace (run 'gitmastery setup' first)")
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	return nil
}

func gitConfigValue(key string) string {
	out, err := exec.Command("git", "config", "--get", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
