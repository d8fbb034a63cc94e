package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/git-mastery/gitmastery/internal/ui"
)

func TestDispatchReplExit(t *testing.T) {
	prev := ui.SetOutput(io.Discard)
	defer ui.SetOutput(prev)

	for _, line := range []string{"exit", "quit"} {
		if done := dispatchRepl(line); !done {
			t.Errorf("dispatchRepl(%q) should end the session", line)
		}
	}
}

func TestDispatchReplCd(t *testing.T) {
	prev := ui.SetOutput(io.Discard)
	defer ui.SetOutput(prev)

	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(orig)

	target := t.TempDir()
	if done := dispatchRepl("cd " + target); done {
		t.Fatal("cd should not end the session")
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Compare via suffix: the temp path may come back through a symlink.
	if !strings.HasSuffix(cwd, strings.TrimPrefix(target, "/private")) &&
		cwd != target {
		t.Errorf("cwd = %q, want %q", cwd, target)
	}
}

func TestReplPromptShowsCwdBase(t *testing.T) {
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(orig)

	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	got := replPrompt()
	if !strings.Contains(got, "gitmastery [") {
		t.Errorf("prompt = %q", got)
	}
}
