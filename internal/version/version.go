// Package version holds the app version, semantic comparison, and the
// latest-release probe used for the update reminder.
package version

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Current is the version of this build. Overridden at release time via
// -ldflags "-X github.com/git-mastery/gitmastery/internal/version.Current=...".
var Current = "1.0.0"

// ReleasesURL redirects to the latest tagged release.
const ReleasesURL = "https://github.com/git-mastery/gitmastery/releases/latest"

// Version is a parsed semantic version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse accepts "1.2.3" or "v1.2.3".
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version string: %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version string: %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsBehind reports whether v is older than other.
func (v Version) IsBehind(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// noRedirectClient stops at the first response so the Location header of
// the /releases/latest redirect can be read without following it.
var noRedirectClient = &http.Client{
	Timeout: 5 * time.Second,
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// LatestRelease resolves the newest published version by reading the tag
// off the release redirect. The URL is parameterized for tests.
func LatestRelease(ctx context.Context, url string) (Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Version{}, err
	}
	resp, err := noRedirectClient.Do(req)
	if err != nil {
		return Version{}, fmt.Errorf("checking latest release: %w", err)
	}
	defer resp.Body.Close()

	loc := resp.Header.Get("Location")
	if loc == "" {
		return Version{}, fmt.Errorf("no release redirect from %s", url)
	}
	tag := loc[strings.LastIndex(loc, "/")+1:]
	return Parse(tag)
}
