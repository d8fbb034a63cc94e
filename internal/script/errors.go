package script

import "fmt"

// Error wraps any failure raised while compiling or running a fetched
// exercise script, or while invoking one of its hook functions. The
// offending script path is always attached.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("executing script %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
