// Package exercises provides narrow, on-demand read access to files in
// the remote exercises repository without cloning it fully.
//
// A Repo wraps one ephemeral shallow, blob-filtered, sparse-enabled clone.
// Individual paths are materialized with sparse-checkout requests as they
// are asked for, keeping transfer volume to the files a command actually
// touches. Sparse clones go through the regular git transfer protocol, so
// repeated fetches do not burn hosting API rate limits the way raw-content
// HTTP endpoints do.
package exercises

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/git-mastery/gitmastery/internal/config"
	"github.com/git-mastery/gitmastery/internal/ui"
)

// Repo is an ephemeral sparse clone of the exercises repository.
//
// Not safe for concurrent use: each sparse-checkout request replaces the
// materialized path set, so overlapping Checkout/read sequences against
// one Repo would observe each other's checkouts.
type Repo struct {
	source config.RemoteSource
	dir    string
}

// Open creates the ephemeral working directory and performs the shallow,
// blob-filtered, sparse-enabled clone. The returned Repo must be released
// with Close on every exit path.
func Open(ctx context.Context, source config.RemoteSource) (*Repo, error) {
	ui.Infof("Fetching exercise information from %s on branch %s", source.URL, source.Branch)

	dir, err := os.MkdirTemp("", "gitmastery-exercises-")
	if err != nil {
		return nil, &CloneError{URL: source.URL, Branch: source.Branch, Err: err}
	}

	err = runGit(ctx, "", "clone",
		"--depth", "1",
		"--branch", source.Branch,
		"--filter=blob:none",
		"--sparse",
		"--quiet",
		source.URL, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, &CloneError{URL: source.URL, Branch: source.Branch, Err: err}
	}

	return &Repo{source: source, dir: dir}, nil
}

// Close deletes the ephemeral working directory. Safe to call more than
// once and after a failed Open.
func (r *Repo) Close() error {
	if r == nil || r.dir == "" {
		return nil
	}
	dir := r.dir
	r.dir = ""
	return os.RemoveAll(dir)
}

// Dir returns the working directory of the clone. Empty after Close.
func (r *Repo) Dir() string { return r.dir }

// Checkout narrows the sparse-checkout pattern to exactly path and
// materializes it. Each call replaces the previous pattern, so paths
// materialized earlier may disappear from disk; callers must not assume
// additive accumulation.
func (r *Repo) Checkout(ctx context.Context, path string) error {
	if r.dir == "" {
		return fmt.Errorf("exercises repository is closed")
	}
	return runGit(ctx, r.dir, "sparse-checkout", "set", "--skip-checks", path)
}

// Exists reports whether path is present in the remote repository. A
// missing path is (false, nil), not an error: sparse-checkout succeeds
// even when the requested pattern matches nothing.
func (r *Repo) Exists(ctx context.Context, path string) (bool, error) {
	if err := r.Checkout(ctx, path); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(r.dir, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FetchFile materializes path and returns its raw bytes.
func (r *Repo) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if err := r.Checkout(ctx, path); err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	data, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	return data, nil
}

// FetchText materializes path and returns its contents as text.
func (r *Repo) FetchText(ctx context.Context, path string) (string, error) {
	data, err := r.FetchFile(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DownloadFile copies a remote file verbatim to a local destination.
func (r *Repo) DownloadFile(ctx context.Context, path, destination string) error {
	data, err := r.FetchFile(ctx, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destination, data, 0o644); err != nil {
		return &FileReadError{Path: path, Err: err}
	}
	return nil
}
