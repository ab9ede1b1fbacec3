//go:build !unix && !windows

package mmap

import "os"

func osMap(_ *os.File, _ int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrNotSupported
}

func osAdvise(_ []byte, _ AccessPattern) error {
	return nil
}
