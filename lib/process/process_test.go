package process

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"chardiff/lib/process/processtest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	processtest.MainIfHelper()
	os.Exit(m.Run())
}

func helper(t *testing.T, mode string, args ...string) Invocation {
	t.Helper()
	path, argv := processtest.Command(t, mode, args...)
	return Invocation{Path: path, Args: argv}
}

// runWithin fails the test instead of hanging when Run does not return in time.
func runWithin(t *testing.T, limit time.Duration, inv Invocation) (*Result, error) {
	t.Helper()

	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := NewRunner().Run(context.Background(), inv)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-time.After(limit):
		t.Fatalf("Run did not return within %s", limit)
		return nil, nil
	}
}

func TestRunCapturesOutput(t *testing.T) {
	t.Run("passes arguments", func(t *testing.T) {
		res, err := runWithin(t, 30*time.Second, helper(t, "echo", "a", "b", "c"))
		require.NoError(t, err)
		require.Equal(t, "a b c\n", string(res.Stdout))
		require.Equal(t, 0, res.ExitCode)
		require.Equal(t, StatusCompleted, res.Status)
		require.True(t, res.Exited())
		require.NoError(t, res.StdinErr)
	})

	t.Run("feeds stdin", func(t *testing.T) {
		inv := helper(t, "cat")
		inv.Stdin = []byte("line one\nline two\n")

		res, err := runWithin(t, 30*time.Second, inv)
		require.NoError(t, err)
		require.Equal(t, "line one\nline two\n", res.Text())
	})

	t.Run("replaces invalid utf-8", func(t *testing.T) {
		res, err := runWithin(t, 30*time.Second, helper(t, "invalid-utf8"))
		require.NoError(t, err)
		require.Equal(t, []byte("ok\xff\xfe!"), res.Stdout)
		require.Equal(t, "ok\uFFFD\uFFFD!", res.Text())
	})
}

func TestRunDoesNotDeadlockOnLargeOutput(t *testing.T) {
	const size = 1 << 20

	inv := helper(t, "flood", "1048576")
	inv.Stdin = bytes.Repeat([]byte("y"), size)

	res, err := runWithin(t, 60*time.Second, inv)
	require.NoError(t, err)
	require.Len(t, res.Stdout, size)
	require.Equal(t, bytes.Repeat([]byte("x"), size), res.Stdout)
	require.NoError(t, res.StdinErr)
}

func TestRunClosesStdinWithoutPayload(t *testing.T) {
	res, err := runWithin(t, 30*time.Second, helper(t, "wait-eof"))
	require.NoError(t, err)
	require.Equal(t, "eof after 0 bytes\n", res.Text())
}

func TestRunReportsExitStatus(t *testing.T) {
	t.Run("non-zero exit is not an error", func(t *testing.T) {
		res, err := runWithin(t, 30*time.Second, helper(t, "exit", "3"))
		require.NoError(t, err)
		require.Equal(t, 3, res.ExitCode)
		require.Equal(t, StatusCompleted, res.Status)
		require.False(t, res.Exited())
		require.Equal(t, "bye\n", res.Text())
	})

	t.Run("death by signal is not an error", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("signals are not reported on windows")
		}
		res, err := runWithin(t, 30*time.Second, helper(t, "kill-self"))
		require.NoError(t, err)
		require.Equal(t, StatusTerminated, res.Status)
		require.Equal(t, "killed", res.Signal)
		require.Equal(t, "dying\n", res.Text())
	})
}

func TestRunStdinWriteFailureKeepsOutput(t *testing.T) {
	inv := helper(t, "close-stdin")
	inv.Stdin = bytes.Repeat([]byte("z"), 4<<20)

	res, err := runWithin(t, 30*time.Second, inv)
	require.NoError(t, err)
	require.Equal(t, "closed\n", res.Text())

	var writeErr *StdinWriteError
	require.True(t, errors.As(res.StdinErr, &writeErr), "StdinErr = %v", res.StdinErr)
	require.Less(t, writeErr.Written, 4<<20)
}

func TestRunTimeout(t *testing.T) {
	inv := helper(t, "sleep", "1m")
	inv.Timeout = 2 * time.Second

	res, err := runWithin(t, 30*time.Second, inv)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "err = %v", err)
	require.Equal(t, StatusTimedOut, res.Status)
	require.Equal(t, "sleeping\n", res.Text())
	require.Less(t, res.Duration, 30*time.Second)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner().Run(ctx, helper(t, "echo", "never"))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StatusCanceled, res.Status)
}

func TestRunSpawnFailures(t *testing.T) {
	dir := t.TempDir()

	notExecutable := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(notExecutable, []byte("not a program"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
		skip    bool
	}{
		{name: "missing file", path: filepath.Join(dir, "missing"), wantErr: os.ErrNotExist},
		{name: "empty path", path: "", wantErr: ErrEmptyPath},
		{name: "directory", path: dir, wantErr: ErrIsDirectory},
		{name: "not executable", path: notExecutable, wantErr: ErrNotExecutable, skip: runtime.GOOS == "windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.skip {
				t.Skip("no executable bit on this platform")
			}
			res, err := NewRunner().Run(context.Background(), Invocation{Path: tt.path})

			var spawnErr *SpawnError
			require.True(t, errors.As(err, &spawnErr), "err = %v", err)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, StatusFailedToStart, res.Status)
			require.Equal(t, -1, res.ExitCode)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("returns an absolute path", func(t *testing.T) {
		path, _ := processtest.Command(t, "echo")
		got, err := Resolve(path)
		require.NoError(t, err)
		require.True(t, filepath.IsAbs(got))
	})

	t.Run("looks up bare names on PATH", func(t *testing.T) {
		want, err := exec.LookPath("sh")
		if err != nil {
			t.Skip("no sh on PATH")
		}
		want, err = filepath.Abs(want)
		require.NoError(t, err)

		got, err := Resolve("sh")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}
