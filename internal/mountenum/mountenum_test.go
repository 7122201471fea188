package mountenum

import (
	"testing"
	"time"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func TestExcludedByFSType(t *testing.T) {
	opts := volinfo.Options{
		ExcludedFileSystemTypes: map[string]struct{}{"tmpfs": {}},
	}.Normalize()

	if !excluded(opts, "/tmp", "tmpfs") {
		t.Fatal("expected tmpfs to be excluded")
	}
	if excluded(opts, "/home", "ext4") {
		t.Fatal("did not expect ext4 to be excluded")
	}
}

func TestExcludedByGlob(t *testing.T) {
	opts := volinfo.Options{
		ExcludedMountPointGlobs: []string{"/snap/**"},
	}.Normalize()

	if !excluded(opts, "/snap/core/1234", "squashfs") {
		t.Fatal("expected /snap/** glob to match")
	}
	if excluded(opts, "/home/user", "ext4") {
		t.Fatal("did not expect /home/user to match /snap/**")
	}
}

func TestProbeTimeoutCapped(t *testing.T) {
	opts := volinfo.Options{TimeoutMs: 30_000}.Normalize()
	if got := probeTimeout(opts); got != 2*time.Second {
		t.Fatalf("expected probe timeout capped at 2s, got %s", got)
	}
}

func TestProbeTimeoutBelowCap(t *testing.T) {
	opts := volinfo.Options{TimeoutMs: 500}.Normalize()
	if got := probeTimeout(opts); got != 500*time.Millisecond {
		t.Fatalf("expected probe timeout of 500ms, got %s", got)
	}
}
