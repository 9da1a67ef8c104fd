package fs

import (
	"errors"
	"syscall"
)

// isTransient reports whether a filesystem error is worth retrying,
// e.g. a busy network share.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.ETIMEDOUT)
}
