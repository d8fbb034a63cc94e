package progress

import (
	"strings"
	"testing"
	"time"
)

func TestRenderSummariesEmpty(t *testing.T) {
	out := RenderSummaries(nil)
	if !strings.Contains(out, "No exercises downloaded yet") {
		t.Errorf("unexpected empty-state output: %q", out)
	}
}

func TestRenderSummaries(t *testing.T) {
	last := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	out := RenderSummaries([]Summary{
		{Exercise: "grep-hidden-word", Attempts: 0},
		{Exercise: "amend-commit", Attempts: 3, Completed: true, LastAttempt: &last},
	})

	if !strings.Contains(out, "grep-hidden-word") || !strings.Contains(out, "amend-commit") {
		t.Fatalf("missing exercises in output:\n%s", out)
	}
	if !strings.Contains(out, "started") {
		t.Errorf("exercise without a pass should render as started:\n%s", out)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("exercise with a pass should render as completed:\n%s", out)
	}
}
