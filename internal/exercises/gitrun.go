package exercises

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runGit executes a git subcommand in dir and folds its combined output
// into the returned error. Sparse checkouts and blob filters are not
// expressible through go-git, so the fetcher drives the git binary.
func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("git %s: %s", args[0], msg)
	}
	return nil
}
