//go:build linux || darwin

package fsmetadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEngineIsHiddenAndSetHiddenRoundTrip(t *testing.T) {
	// SetHidden returns symlink-resolved paths, and TempDir may sit
	// under a symlink (e.g. /var -> /private/var on macOS).
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	path := dir + "/roundtrip.txt"
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	e := newTestEngine(t, &fakeEnumerator{}, &fakeProber{})

	hiddenFuture := e.SetHidden(context.Background(), path, true)
	newPath, err := hiddenFuture.Wait(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("SetHidden: %v", err)
	}

	wantHiddenPath := dir + "/.roundtrip.txt"
	if newPath != wantHiddenPath {
		t.Fatalf("expected returned path %q, got %q", wantHiddenPath, newPath)
	}

	isHiddenFuture := e.IsHidden(context.Background(), newPath)
	isHidden, err := isHiddenFuture.Wait(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("IsHidden: %v", err)
	}
	if !isHidden {
		t.Fatal("expected path to report hidden after SetHidden(true)")
	}
}
