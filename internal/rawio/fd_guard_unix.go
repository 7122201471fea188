//go:build linux || darwin

package rawio

import (
	"golang.org/x/sys/unix"
)

// FDGuard owns one open file descriptor and closes it exactly once,
// on every control-flow path.
type FDGuard struct {
	released
	fd    int
	valid bool
}

// OpenDirFD opens path directory-only with close-on-exec set, so a
// subsequent fd-based statvfs/statfs call operates on exactly the
// directory that was validated, immune to a rename/unlink racing in
// between. Non-directories fail with ENOTDIR.
func OpenDirFD(path string) (*FDGuard, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC|unix.O_DIRECTORY, 0)
	if err != nil {
		return nil, err
	}
	return &FDGuard{fd: fd, valid: true}, nil
}

// FD returns the underlying descriptor for use in fd-based syscalls.
func (g *FDGuard) FD() int { return g.fd }

// Release closes the descriptor. Safe to call multiple times or on a
// nil receiver.
func (g *FDGuard) Release() {
	if g == nil || !g.valid {
		return
	}
	g.do(func() {
		unix.Close(g.fd)
	})
}
