package exercises

import "fmt"

// CloneError means the ephemeral clone of the exercises repository could
// not be created: remote unreachable, branch missing, or the local
// filesystem refused us. Never retried here.
type CloneError struct {
	URL    string
	Branch string
	Err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("cloning %s (branch %s): %v", e.URL, e.Branch, e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// FileReadError means a path was absent after checkout, or local I/O
// failed while reading it.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s from exercises repository: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
