// Package lockfile replaces files atomically: new contents are written to
// <path>.lock, which is renamed over the file on Commit. Holding the lock file
// keeps two writers from replacing the same file at once.
package lockfile

import (
	"os"

	"github.com/pkg/errors"
)

// LockDeniedError means another writer holds the lock.
type LockDeniedError struct {
	Path string
}

func (e *LockDeniedError) Error() string {
	return "unable to create " + e.Path + ": file exists; another process may be writing it"
}

// MissingParentError means the directory that should hold the file does not exist.
type MissingParentError struct {
	Path string
}

func (e *MissingParentError) Error() string {
	return "unable to create " + e.Path + ": no such directory"
}

type NoPermissionError struct {
	Path string
}

func (e *NoPermissionError) Error() string {
	return "unable to create " + e.Path + ": permission denied"
}

// StaleLockError means the lock was used after being committed or rolled back.
type StaleLockError struct {
	Path string
}

func (e *StaleLockError) Error() string {
	return "not holding lock on file: " + e.Path
}

type Lockfile struct {
	filePath string
	lockPath string
	Lock     *os.File
}

func NewLockfile(filePath string) *Lockfile {
	return &Lockfile{
		filePath: filePath,
		lockPath: filePath + ".lock",
	}
}

func (lf *Lockfile) HoldForUpdate() error {
	if lf.Lock == nil {
		lock, err := os.OpenFile(lf.lockPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			if os.IsExist(err) {
				return &LockDeniedError{Path: lf.lockPath}
			}
			if os.IsNotExist(err) {
				return &MissingParentError{Path: lf.lockPath}
			}
			if os.IsPermission(err) {
				return &NoPermissionError{Path: lf.lockPath}
			}
			return errors.Wrapf(err, "creating %s", lf.lockPath)
		}
		lf.Lock = lock
	}
	return nil
}

func (lf *Lockfile) Write(data []byte) error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	_, err := lf.Lock.Write(data)
	return errors.Wrapf(err, "writing %s", lf.lockPath)
}

func (lf *Lockfile) Commit() error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	if err := lf.Lock.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", lf.lockPath)
	}
	lf.Lock = nil
	if err := os.Rename(lf.lockPath, lf.filePath); err != nil {
		os.Remove(lf.lockPath)
		return errors.Wrapf(err, "replacing %s", lf.filePath)
	}
	return nil
}

func (lf *Lockfile) Rollback() error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	if err := lf.Lock.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", lf.lockPath)
	}
	lf.Lock = nil
	if err := os.Remove(lf.lockPath); err != nil {
		return errors.Wrapf(err, "removing %s", lf.lockPath)
	}

	return nil
}

func (lf *Lockfile) raiseOnStaleLock() error {
	if lf.Lock == nil {
		return &StaleLockError{Path: lf.lockPath}
	}
	return nil
}

// WriteFile replaces the file at path with data through a lock file.
func WriteFile(path string, data []byte) error {
	lf := NewLockfile(path)
	if err := lf.HoldForUpdate(); err != nil {
		return err
	}
	if err := lf.Write(data); err != nil {
		lf.Rollback()
		return err
	}
	return lf.Commit()
}
