//go:build windows

package rawio

import "golang.org/x/sys/windows"

// HandleGuard owns a generic Win32 handle (CreateFile, OpenProcess,
// ...) and releases it via CloseHandle. Mismatching CloseHandle with
// FindClose is undefined behavior; this guard and FindHandleGuard
// exist as distinct types precisely so the compiler -- not a code
// reviewer -- catches that mistake.
type HandleGuard struct {
	released
	h     windows.Handle
	valid bool
}

// NewHandleGuard wraps h. Pass windows.InvalidHandle or 0 to get a
// guard whose Release is a safe no-op.
func NewHandleGuard(h windows.Handle) *HandleGuard {
	valid := h != 0 && h != windows.InvalidHandle
	return &HandleGuard{h: h, valid: valid}
}

func (g *HandleGuard) Handle() windows.Handle { return g.h }

func (g *HandleGuard) Release() {
	if g == nil || !g.valid {
		return
	}
	g.do(func() {
		windows.CloseHandle(g.h)
	})
}

// FindHandleGuard owns a handle returned by FindFirstVolume and
// releases it via FindVolumeClose. Handles from FindFirstFile, which
// need FindClose, are not covered by this guard.
type FindHandleGuard struct {
	released
	h     windows.Handle
	valid bool
}

func NewFindHandleGuard(h windows.Handle) *FindHandleGuard {
	valid := h != 0 && h != windows.InvalidHandle
	return &FindHandleGuard{h: h, valid: valid}
}

func (g *FindHandleGuard) Handle() windows.Handle { return g.h }

func (g *FindHandleGuard) Release() {
	if g == nil || !g.valid {
		return
	}
	g.do(func() {
		windows.FindVolumeClose(g.h)
	})
}
