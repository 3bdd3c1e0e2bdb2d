package process

import (
	"fmt"
	"time"
)

// SpawnError reports that a program could not be started: it does not exist,
// is not an executable file, or the operating system refused to run it.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot run %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a program was killed because it ran longer than
// its invocation allowed.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s and was killed", e.Path, e.Timeout)
}

// StdinWriteError reports that the stdin payload could not be fully delivered,
// usually because the program exited or closed its input early. It is recorded
// on the Result and never aborts output collection.
type StdinWriteError struct {
	Written int
	Err     error
}

func (e *StdinWriteError) Error() string {
	return fmt.Sprintf("writing stdin (%d bytes delivered): %v", e.Written, e.Err)
}

func (e *StdinWriteError) Unwrap() error {
	return e.Err
}
