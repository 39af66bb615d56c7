// Package lock guards a target directory against concurrent generator runs.
package lock

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// FileName is the lock file name inside the state directory.
const FileName = "lock"

// Info contains the metadata stored in a lock file.
type Info struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	Cmd       string    `json:"cmd,omitempty"`
}

// ErrLocked indicates a non-stale lock is held by someone else.
type ErrLocked struct {
	Info *Info // nil if lock file is unreadable
	Path string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("target is locked by pid %d (%s) since %s (lock file: %s)",
			e.Info.PID, e.Info.Cmd, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("target is locked (lock file: %s)", e.Path)
}

// TargetLock serializes mutating runs against one target directory.
type TargetLock struct {
	// Dir is the state directory holding the lock file, e.g. "<target>/.wsgen".
	Dir        string
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
}

// New returns a TargetLock with defaults: stale after 2h, wall clock, and a
// best-effort liveness probe.
func New(dir string) TargetLock {
	return TargetLock{
		Dir:        dir,
		StaleAfter: 2 * time.Hour,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
	}
}

// Path returns the lock file path.
func (l TargetLock) Path() string {
	return filepath.Join(l.Dir, FileName)
}

// Lock acquires the lock and returns an unlock function. cmd is recorded
// for diagnostics. A held, non-stale lock returns E_LOCKED wrapping *ErrLocked.
func (l TargetLock) Lock(cmd string) (unlock func() error, err error) {
	lockPath := l.Path()
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := os.MkdirAll(l.Dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.EIO, "failed to create state directory", err)
		}

		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			info := Info{PID: os.Getpid(), CreatedAt: l.Now(), Cmd: cmd}
			data, _ := json.Marshal(info)
			if _, writeErr := f.Write(data); writeErr != nil {
				f.Close()
				os.Remove(lockPath)
				return nil, errors.Wrap(errors.EIO, "failed to write lock file", writeErr)
			}
			if closeErr := f.Close(); closeErr != nil {
				os.Remove(lockPath)
				return nil, errors.Wrap(errors.EIO, "failed to close lock file", closeErr)
			}
			return func() error {
				err := os.Remove(lockPath)
				if err != nil && !os.IsNotExist(err) {
					return err
				}
				return nil
			}, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrap(errors.EIO, "failed to create lock file", err)
		}

		info, readErr := l.readInfo(lockPath)
		if readErr != nil {
			// Unreadable: fall back to mtime for staleness.
			stat, statErr := os.Stat(lockPath)
			if statErr != nil || l.Now().Sub(stat.ModTime()) <= l.StaleAfter {
				return nil, locked(&ErrLocked{Path: lockPath})
			}
			if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, locked(&ErrLocked{Path: lockPath})
			}
			continue
		}

		if l.isStale(info) {
			if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, locked(&ErrLocked{Info: info, Path: lockPath})
			}
			continue
		}
		return nil, locked(&ErrLocked{Info: info, Path: lockPath})
	}
	return nil, locked(&ErrLocked{Path: lockPath})
}

func locked(e *ErrLocked) error {
	return errors.WithHint(
		errors.WrapWithDetails(errors.ELocked, "another wsgen run holds the target lock", e,
			map[string]string{"lock": e.Path}),
		"wait for the other run to finish, or remove the lock file if no run is active")
}

func (l TargetLock) readInfo(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (l TargetLock) isStale(info *Info) bool {
	if !l.IsPIDAlive(info.PID) {
		return true
	}
	return l.Now().Sub(info.CreatedAt) > l.StaleAfter
}

// isPIDAlive uses the signal 0 probe. EPERM means the process exists.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return stderrors.Is(err, syscall.EPERM)
}
