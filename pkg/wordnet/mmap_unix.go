//go:build unix

package wordnet

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps a file's bytes via mmap(2) rather than a series of read(2)
// syscalls and hands back the mapped slice directly: pages fault in as the
// parser scans them instead of being copied into a heap-resident buffer up
// front. The returned unmap func must be called once the caller is done
// reading from the slice; it is the caller's responsibility not to retain
// the slice (or any substring built from unsafe pointers into it) past
// that call.
func mmapFile(path string) (data []byte, unmap func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return mapped, func() error { return unix.Munmap(mapped) }, nil
}
