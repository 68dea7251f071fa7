package upgrade

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StaleLockThreshold is the maximum age of a lock before it is
// considered abandoned and may be broken.
const StaleLockThreshold = 10 * time.Minute

// ErrLockHeld means another upgrade run holds the lock.
var ErrLockHeld = errors.New("upgrade lock held: another upgrade may be in progress")

// lock is the advisory lock taken for the duration of a run. It keeps
// two CLI invocations from interleaving their narration and journal
// writes; correctness against concurrent runs comes from uniquely
// named staging directories and atomic renames, not from this file.
type lock struct {
	path string
	file *os.File
}

// acquireLock creates the lock file exclusively. An existing lock
// older than StaleLockThreshold is removed and acquisition retried
// once.
func acquireLock(path string) (*lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		stale, _ := isLockStale(path)
		if !stale {
			return nil, ErrLockHeld
		}
		os.Remove(path)
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLockHeld
		}
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock data: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &lock{path: path, file: file}, nil
}

// release removes the lock. Safe to call more than once.
func (l *lock) release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}
	return nil
}

func isLockStale(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > StaleLockThreshold, nil
}

// InspectLock reports whether a lock file exists at path and how old
// it is. Used by status reporting; it never modifies the lock.
func InspectLock(path string) (exists bool, age time.Duration, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("stat lock file: %w", err)
	}
	return true, time.Since(info.ModTime()), nil
}
