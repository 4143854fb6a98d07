package sessions

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/overlaphq/overlap-cli/errors"
)

// withLock runs fn while holding an exclusive lock on the store's lock
// file. The lock is process-wide and coarse: hook processes contend on
// the whole store, which is acceptable because each critical section is a
// single small JSON read+write.
func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreLock, "failed to create store directory")
	}

	lockPath := filepath.Join(s.dir, lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreLock, "failed to open lock file")
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreLock, "failed to acquire store lock")
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}
