//go:build !linux

package core

import "unsafe"

// AlignedBytes allocates a byte slice whose backing array starts on a
// CacheLineSize boundary, using Go's allocator plus a pointer-offset slice
// rather than a platform mmap call. Kept as the portable fallback for
// platforms where golang.org/x/sys/unix.Mmap (see hostmem_linux.go) isn't
// wired up.
func AlignedBytes(size int) []byte {
	if size == 0 {
		return nil
	}
	buf := make([]byte, size+CacheLineSize-1)

	ptr := uintptr(unsafe.Pointer(&buf[0]))
	offset := uintptr(0)
	if !IsAligned(ptr) {
		offset = AlignedSize(ptr) - ptr
	}

	return buf[offset : offset+uintptr(size)]
}
