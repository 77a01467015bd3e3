//go:build unix

package secret

import "golang.org/x/sys/unix"

// lock pins b's pages in physical memory so the secret is never written to
// swap. Failure is non-fatal — not every environment grants mlock, and the
// secret is still zeroised on Drop either way.
func lock(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return unix.Mlock(b) == nil
}

func unlock(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munlock(b)
}
