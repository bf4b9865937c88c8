//go:build !unix

package wordnet

import "os"

// mmapFile falls back to a plain read on platforms without POSIX mmap; the
// unmap func is a no-op since there is no mapping to release.
func mmapFile(path string) (data []byte, unmap func() error, err error) {
	b, err := os.ReadFile(path)
	return b, func() error { return nil }, err
}
