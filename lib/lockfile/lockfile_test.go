package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLockfile(t *testing.T) {
	t.Run("commit replaces the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.toml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		lf := NewLockfile(path)
		require.NoError(t, lf.HoldForUpdate())
		require.NoError(t, lf.Write([]byte("new")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "old", string(data), "file changed before commit")

		require.NoError(t, lf.Commit())
		data, err = os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "new", string(data))
		require.NoFileExists(t, path+".lock")
	})

	t.Run("rollback leaves the file alone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.toml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		lf := NewLockfile(path)
		require.NoError(t, lf.HoldForUpdate())
		require.NoError(t, lf.Write([]byte("new")))
		require.NoError(t, lf.Rollback())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "old", string(data))
		require.NoFileExists(t, path+".lock")
	})

	t.Run("a second writer is denied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.toml")

		first := NewLockfile(path)
		require.NoError(t, first.HoldForUpdate())
		defer first.Rollback()

		err := NewLockfile(path).HoldForUpdate()
		var denied *LockDeniedError
		require.True(t, errors.As(err, &denied), "err = %v", err)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "suite.toml")

		err := NewLockfile(path).HoldForUpdate()
		var missing *MissingParentError
		require.True(t, errors.As(err, &missing), "err = %v", err)
	})

	t.Run("using a released lock is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.toml")

		lf := NewLockfile(path)
		require.NoError(t, lf.HoldForUpdate())
		require.NoError(t, lf.Commit())

		var stale *StaleLockError
		require.True(t, errors.As(lf.Write([]byte("late")), &stale))
		require.True(t, errors.As(lf.Commit(), &stale))
	})
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteFile(path, []byte("tests: []\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "tests: []\n", string(data))
}
