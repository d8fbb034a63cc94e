package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/git-mastery/gitmastery/internal/ui"
)

// replCommands are the subcommands dispatchable from the interactive
// shell. repl itself is deliberately absent.
var replCommands = map[string]bool{
	"check":    true,
	"download": true,
	"progress": true,
	"setup":    true,
	"verify":   true,
	"version":  true,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Repl starts an interactive shell. Gitmastery commands work with or
without the 'gitmastery' prefix; anything else is passed to the OS shell.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func replPrompt() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "gitmastery> "
	}
	return "gitmastery [" + filepath.Base(cwd) + "]> "
}

func runRepl(_ *cobra.Command, _ []string) error {
	ui.Infof("Welcome to the Git-Mastery shell!")
	ui.Infof("Type 'help' for available commands, or 'exit' to quit.")
	ui.Infof("Anything that is not a gitmastery command runs in your OS shell.")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt(),
		HistoryFile:     filepath.Join(os.TempDir(), "gitmastery_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				ui.Infof("Goodbye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		input = strings.TrimPrefix(input, "gitmastery ")

		if done := dispatchRepl(input); done {
			return nil
		}
		rl.SetPrompt(replPrompt())
	}
}

// dispatchRepl runs one line and reports whether the session should end.
func dispatchRepl(input string) bool {
	fields := strings.Fields(input)
	name := fields[0]

	switch name {
	case "exit", "quit":
		ui.Infof("Goodbye!")
		return true
	case "help":
		printReplHelp()
		return false
	case "cd":
		changeDir(fields[1:])
		return false
	}

	if replCommands[name] {
		runGitmasteryCommand(fields)
		return false
	}

	runShellCommand(input)
	return false
}

// runGitmasteryCommand re-enters the cobra tree for one command, always
// restoring the working directory afterwards so a misbehaving command
// cannot strand the session.
func runGitmasteryCommand(fields []string) {
	cwd, cwdErr := os.Getwd()

	rootCmd.SetArgs(fields)
	if err := rootCmd.Execute(); err != nil {
		ui.Errorf("Error: %v", err)
	}
	rootCmd.SetArgs(nil)

	if cwdErr == nil {
		os.Chdir(cwd)
	}
}

func runShellCommand(line string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			ui.Warnf("Command exited with code %d", exitErr.ExitCode())
			return
		}
		ui.Errorf("Shell error: %v", err)
	}
}

func changeDir(args []string) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" || dir == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			ui.Errorf("Cannot resolve home directory: %v", err)
			return
		}
		dir = home
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	if err := os.Chdir(dir); err != nil {
		ui.Errorf("Cannot change directory: %v", err)
	}
}

func printReplHelp() {
	ui.Infof("Git-Mastery commands:")
	for _, c := range rootCmd.Commands() {
		if replCommands[c.Name()] {
			ui.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	ui.Infof("Built-in commands:")
	ui.Printf("  %-12s %s\n", "cd", "Change directory")
	ui.Printf("  %-12s %s\n", "help", "Show this help message")
	ui.Printf("  %-12s %s\n", "exit", "Leave the session")
	ui.Infof("All other commands are passed to the shell.")
}
