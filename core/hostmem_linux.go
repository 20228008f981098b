//go:build linux

package core

import (
	"golang.org/x/sys/unix"
)

// AlignedBytes allocates host-side storage via an anonymous mmap. Pages
// returned by mmap are already page-aligned, which is a stronger guarantee
// than CacheLineSize and lets large buffers avoid the slice-offset trick
// used by the portable fallback. Small requests still go through mmap
// rather than switching allocators at a size threshold, so Buffer's
// residency bookkeeping never has to know which path produced a slice.
func AlignedBytes(size int) []byte {
	if size == 0 {
		return nil
	}
	b, err := unix.Mmap(-1, 0, AlignPage(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		// fall back to a regular allocation rather than fail outright;
		// callers treat AlignedBytes as infallible.
		return make([]byte, size)
	}
	return b[:size]
}
