//go:build !unix

package gvsnap

import (
	"runtime"

	"github.com/pkg/errors"
)

// Open is only supported on unix systems
func Open(path string) (*Reader, error) {
	return nil, errors.Errorf("non-blocking snapshot reads are not supported on %s", runtime.GOOS)
}

func isWouldBlock(error) bool {
	return false
}
