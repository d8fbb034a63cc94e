package progress

import (
	"fmt"
	"strings"
)

// RenderSummaries formats progress rows for terminal display.
func RenderSummaries(summaries []Summary) string {
	if len(summaries) == 0 {
		return "No exercises downloaded yet. Run 'gitmastery download <exercise>' to begin.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-32s %-10s %-9s %s\n", "EXERCISE", "STATUS", "ATTEMPTS", "LAST ATTEMPT")
	for _, s := range summaries {
		status := "started"
		if s.Completed {
			status = "completed"
		}
		last := "-"
		if s.LastAttempt != nil {
			last = s.LastAttempt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%-32s %-10s %-9d %s\n", s.Exercise, status, s.Attempts, last)
	}
	return b.String()
}
