//go:build linux

package mountenum

import (
	"strings"
	"testing"
)

func TestParseMountTable(t *testing.T) {
	input := `rootfs / rootfs rw 0 0
sysfs /sys sysfs rw,nosuid,nodev,noexec,relatime 0 0
proc /proc proc rw,nosuid,nodev,noexec,relatime 0 0
/dev/sda1 / ext4 rw,relatime,errors=remount-ro 0 0
tmpfs /run tmpfs rw,nosuid,nodev,noexec,relatime,size=813876k,mode=755 0 0
/dev/sdb1 /mnt/data\040with\040space xfs rw,relatime 0 0
`
	entries, err := parseMountTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseMountTable failed: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}

	found := false
	for _, e := range entries {
		if e.mountPoint == "/mnt/data with space" && e.fstype == "xfs" {
			found = true
		}
	}
	if !found {
		t.Error("expected decoded mount point with space")
	}
}

func TestParseMountTableEmpty(t *testing.T) {
	entries, err := parseMountTable(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries, got %d", len(entries))
	}
}

func TestIsSystemMountPoint(t *testing.T) {
	cases := []struct {
		mount, fstype string
		want          bool
	}{
		{"/", "ext4", true},
		{"/sys/kernel", "sysfs", true},
		{"/mnt/data", "ext4", false},
		{"/proc", "proc", true},
		{"/snap/core/123", "squashfs", true},
	}
	for _, c := range cases {
		if got := isSystemMountPoint(c.mount, c.fstype); got != c.want {
			t.Errorf("isSystemMountPoint(%q, %q) = %v, want %v", c.mount, c.fstype, got, c.want)
		}
	}
}

func TestDecodeMountPath(t *testing.T) {
	got := decodeMountPath(`/mnt/a\040b\134c`)
	want := `/mnt/a b\c`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
