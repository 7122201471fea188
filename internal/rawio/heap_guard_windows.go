//go:build windows

package rawio

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// HeapGuard owns a buffer allocated by a Win32 API (e.g.
// FormatMessage with FORMAT_MESSAGE_ALLOCATE_BUFFER) and releases it
// with LocalFree -- never with a Go-side free, and never crossed with
// a free from a different allocator family.
type HeapGuard struct {
	released
	ptr uintptr
}

func NewHeapGuard(ptr uintptr) *HeapGuard {
	return &HeapGuard{ptr: ptr}
}

func (g *HeapGuard) Pointer() uintptr { return g.ptr }

func (g *HeapGuard) Release() {
	if g == nil || g.ptr == 0 {
		return
	}
	g.do(func() {
		windows.LocalFree(windows.Handle(g.ptr))
	})
}

// FormatMessage wraps FormatMessageW with FORMAT_MESSAGE_ALLOCATE_BUFFER,
// returning the decoded string and releasing the heap buffer through
// the matching LocalFree-backed guard before returning -- the caller
// never touches the raw allocation.
func FormatMessage(code uint32) string {
	var buf uintptr
	flags := uint32(windows.FORMAT_MESSAGE_FROM_SYSTEM |
		windows.FORMAT_MESSAGE_ALLOCATE_BUFFER |
		windows.FORMAT_MESSAGE_IGNORE_INSERTS)

	n, err := windows.FormatMessage(flags, 0, code, 0,
		(*uint16)(unsafe.Pointer(&buf)), 0, nil)
	if err != nil || n == 0 || buf == 0 {
		return ""
	}
	guard := NewHeapGuard(buf)
	defer guard.Release()

	slice := unsafe.Slice((*uint16)(unsafe.Pointer(buf)), n)
	return windows.UTF16ToString(slice)
}
