// Package process runs a program once with scripted arguments and stdin and
// captures everything it writes to stdout.
//
// The stdin payload is written by its own goroutine while the caller drains
// stdout, so a program that produces a lot of output before it reads its input
// cannot deadlock against the parent.
package process

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Status captures how a program run concluded.
type Status string

const (
	StatusCompleted     Status = "completed"
	StatusFailedToStart Status = "failed_to_start"
	StatusTimedOut      Status = "timed_out"
	StatusCanceled      Status = "canceled"
	StatusTerminated    Status = "terminated"
)

// DefaultWaitDelay bounds how long Run keeps waiting for the output pipes to
// close once a killed program has exited.
const DefaultWaitDelay = 2 * time.Second

var (
	ErrEmptyPath     = errors.New("empty program path")
	ErrIsDirectory   = errors.New("is a directory")
	ErrNotExecutable = errors.New("permission denied: not an executable file")
)

// Invocation describes a single program run.
type Invocation struct {
	Path string
	Args []string

	// Stdin is written to the program's standard input, which is then closed.
	// When empty, the program sees end of input immediately.
	Stdin []byte

	// Timeout, when positive, kills the program after the given duration.
	Timeout time.Duration

	// Dir is the working directory; empty means the current one.
	Dir string

	// Stderr receives the program's standard error; nil discards it.
	Stderr io.Writer
}

// Result is what one program run produced.
type Result struct {
	Path     string
	Args     []string
	Stdout   []byte
	ExitCode int
	Signal   string
	Status   Status
	Duration time.Duration

	// StdinErr is set when the stdin payload could not be fully written.
	StdinErr error
}

// Text returns stdout as a string. Every byte that is not part of a valid
// UTF-8 sequence becomes its own U+FFFD.
func (r *Result) Text() string {
	if utf8.Valid(r.Stdout) {
		return string(r.Stdout)
	}
	var sb strings.Builder
	sb.Grow(len(r.Stdout))
	for _, c := range string(r.Stdout) {
		sb.WriteRune(c)
	}
	return sb.String()
}

// Exited reports whether the program ran to completion and exited with status 0.
func (r *Result) Exited() bool {
	return r.Status == StatusCompleted && r.ExitCode == 0
}

// Resolve turns path into the absolute path of an existing executable file. A
// path that names a file relative to the working directory wins; a bare name
// that does not is looked up on PATH.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", &SpawnError{Path: path, Err: ErrEmptyPath}
	}

	candidate := path
	if _, err := os.Stat(path); err != nil && !strings.ContainsRune(path, filepath.Separator) && !strings.Contains(path, "/") {
		found, lookErr := exec.LookPath(path)
		if lookErr != nil {
			return "", &SpawnError{Path: path, Err: lookErr}
		}
		candidate = found
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", &SpawnError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &SpawnError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &SpawnError{Path: path, Err: ErrIsDirectory}
	}
	if !isExecutable(info) {
		return "", &SpawnError{Path: path, Err: ErrNotExecutable}
	}

	return abs, nil
}

func isExecutable(info os.FileInfo) bool {
	if filepath.Separator == '\\' {
		return true
	}
	return info.Mode()&0111 != 0
}

// Runner starts programs. The zero value is ready to use.
type Runner struct {
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

func NewRunner() *Runner {
	return &Runner{}
}

// Run starts the program, feeds it inv.Stdin and collects its stdout until it
// exits.
//
// A non-zero exit status or death by signal is not an error: it is reported on
// the Result. Run returns a *SpawnError when the program cannot be started and
// a *TimeoutError, along with whatever output was captured, when inv.Timeout
// elapses first.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	result := &Result{
		Path:     inv.Path,
		Args:     append([]string(nil), inv.Args...),
		ExitCode: -1,
		Status:   StatusFailedToStart,
	}

	path, err := Resolve(inv.Path)
	if err != nil {
		return result, err
	}
	result.Path = path

	if err := ctx.Err(); err != nil {
		result.Status = StatusCanceled
		return result, errors.Wrapf(err, "running %s", path)
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stderr = inv.Stderr
	cmd.WaitDelay = DefaultWaitDelay
	if r.WaitDelay > 0 {
		cmd.WaitDelay = r.WaitDelay
	}
	configureProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return result, &SpawnError{Path: path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return result, &SpawnError{Path: path, Err: err}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return result, &SpawnError{Path: path, Err: err}
	}

	// The writer goroutine owns stdin until it closes it; this goroutine owns
	// stdout until EOF. Neither waits on the other.
	var wg sync.WaitGroup
	var stdinErr error
	if len(inv.Stdin) == 0 {
		if err := stdin.Close(); err != nil {
			stdinErr = &StdinWriteError{Err: err}
		}
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stdinErr = feed(stdin, inv.Stdin)
		}()
	}

	var buf bytes.Buffer
	_, readErr := io.Copy(&buf, stdout)
	waitErr := cmd.Wait()
	wg.Wait()

	result.Duration = time.Since(start)
	result.Stdout = buf.Bytes()
	result.StdinErr = stdinErr

	state := cmd.ProcessState
	signaled := false
	if state != nil {
		result.ExitCode = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			signaled = true
			result.Signal = ws.Signal().String()
		}
	}

	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded) && inv.Timeout > 0:
		result.Status = StatusTimedOut
		return result, &TimeoutError{Path: path, Timeout: inv.Timeout}
	case ctxErr != nil:
		result.Status = StatusCanceled
		return result, errors.Wrapf(ctxErr, "running %s", path)
	case signaled:
		result.Status = StatusTerminated
	default:
		result.Status = StatusCompleted
	}

	if readErr != nil {
		return result, errors.Wrapf(readErr, "reading stdout of %s", path)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return result, errors.Wrapf(waitErr, "waiting for %s", path)
	}

	return result, nil
}

// feed writes payload to w and closes it. A failure to write does not stop the
// close.
func feed(w io.WriteCloser, payload []byte) error {
	n, err := w.Write(payload)
	closeErr := w.Close()
	if err != nil {
		return &StdinWriteError{Written: n, Err: err}
	}
	if closeErr != nil {
		return &StdinWriteError{Written: n, Err: closeErr}
	}
	return nil
}
