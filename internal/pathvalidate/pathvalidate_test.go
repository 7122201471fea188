package pathvalidate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func TestCanonicalizeRejectsEmpty(t *testing.T) {
	if _, err := Canonicalize("test", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCanonicalizeRejectsNulByte(t *testing.T) {
	if _, err := Canonicalize("test", "foo\x00bar"); err == nil {
		t.Fatal("expected error for embedded NUL byte")
	}
}

func TestCanonicalizeExistingDir(t *testing.T) {
	dir := t.TempDir()
	got, err := Canonicalize("test", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeNonExistentReattachesBase(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "does-not-exist-yet")

	got, err := Canonicalize("test", target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "does-not-exist-yet" {
		t.Fatalf("expected base to be reattached, got %q", got)
	}
}

func TestCanonicalizeUnicodeNormalizationConverges(t *testing.T) {
	dir := t.TempDir()
	nfc := filepath.Join(dir, "café") // precomposed é
	nfd := filepath.Join(dir, "café") // e + combining acute accent

	if err := os.Mkdir(nfc, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	gotNFC, err := Canonicalize("test", nfc)
	if err != nil {
		t.Fatalf("unexpected error canonicalizing nfc form: %v", err)
	}
	gotNFD, err := Canonicalize("test", nfd)
	if err != nil {
		t.Fatalf("unexpected error canonicalizing nfd form: %v", err)
	}
	if gotNFC != gotNFD {
		t.Fatalf("expected both normalized forms to converge, got %q and %q", gotNFC, gotNFD)
	}
}

func TestCanonicalizeMissingParentIsNotFound(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "missing-parent", "child")

	_, err := Canonicalize("test", target)
	if err == nil {
		t.Fatal("expected error")
	}
	var verr *volinfo.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *volinfo.Error, got %T", err)
	}
	if verr.Kind != volinfo.KindNotFound {
		t.Fatalf("expected KindNotFound, got %s", verr.Kind)
	}
}
