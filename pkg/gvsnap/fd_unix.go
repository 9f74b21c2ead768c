//go:build unix

package gvsnap

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Open opens path read-only and non-blocking
func Open(path string) (*Reader, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot file %s", path)
	}
	return newReader(path, fdDescriptor(fd)), nil
}

// fdDescriptor is a raw unix file descriptor
type fdDescriptor int

func (d fdDescriptor) Seek(offset int64, whence int) (int64, error) {
	return unix.Seek(int(d), offset, whence)
}

func (d fdDescriptor) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(int(d), p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (d fdDescriptor) Close() error {
	return unix.Close(int(d))
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
