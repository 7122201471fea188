//go:build linux || darwin

package hidden

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsHiddenDotPrefix(t *testing.T) {
	dir := t.TempDir()
	hiddenPath := filepath.Join(dir, ".secret")
	if err := os.WriteFile(hiddenPath, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	hidden, err := IsHidden(hiddenPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hidden {
		t.Fatal("expected dot-prefixed file to report hidden")
	}
}

func TestIsHiddenVisible(t *testing.T) {
	dir := t.TempDir()
	visiblePath := filepath.Join(dir, "visible.txt")
	if err := os.WriteFile(visiblePath, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	hidden, err := IsHidden(visiblePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hidden {
		t.Fatal("expected visible file to report not hidden")
	}
}

func TestIsHiddenMissingPathIsFalse(t *testing.T) {
	hidden, err := IsHidden("/does/not/exist/anywhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hidden {
		t.Fatal("expected missing path to report not hidden")
	}
}

func TestIsHiddenRootIsFalse(t *testing.T) {
	hidden, err := IsHidden("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hidden {
		t.Fatal("expected root to report not hidden")
	}
}

func TestSetHiddenByRenameRoundTrip(t *testing.T) {
	// setHiddenByRename returns symlink-resolved paths, and TempDir may
	// sit under a symlink (e.g. /var -> /private/var on macOS).
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	path := filepath.Join(dir, "roundtrip.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	newPath, err := setHiddenByRename(path, true)
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	wantHiddenPath := filepath.Join(dir, ".roundtrip.txt")
	if newPath != wantHiddenPath {
		t.Fatalf("expected returned path %q, got %q", wantHiddenPath, newPath)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("expected renamed hidden file to exist: %v", err)
	}

	visiblePath, err := setHiddenByRename(newPath, false)
	if err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if visiblePath != path {
		t.Fatalf("expected returned path %q, got %q", path, visiblePath)
	}
	if _, err := os.Stat(visiblePath); err != nil {
		t.Fatalf("expected renamed visible file to exist: %v", err)
	}
}

func TestSetHiddenByRenameIdempotent(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	path := filepath.Join(dir, ".already_hidden")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	newPath, err := setHiddenByRename(path, true)
	if err != nil {
		t.Fatalf("expected no-op hide to succeed, got: %v", err)
	}
	if newPath != path {
		t.Fatalf("expected unchanged path %q, got %q", path, newPath)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected path unchanged: %v", err)
	}
}

func TestSetHiddenByRenameRejectsRoot(t *testing.T) {
	if _, err := setHiddenByRename("/", true); err == nil {
		t.Fatal("expected error hiding root")
	}
}

func TestSetHiddenByRenameRejectsCollision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collide.txt")
	hiddenPath := filepath.Join(dir, ".collide.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(hiddenPath, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := setHiddenByRename(path, true); err == nil {
		t.Fatal("expected error when hidden target already exists")
	}
}
