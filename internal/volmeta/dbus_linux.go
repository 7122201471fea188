//go:build linux

package volmeta

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"
)

// udisksWorker owns the single system-bus connection this package
// uses for best-effort label enrichment. Every call is serialized
// under one mutex and runs on whichever pool worker asks; there is no
// dedicated enrichment goroutine. A failed dial is cached instead of
// retried per mount.
type udisksWorker struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	dialErr error
	dialed  bool
}

var globalUdisks udisksWorker

func filesystemLabelForDevice(ctx context.Context, device string) string {
	globalUdisks.mu.Lock()
	defer globalUdisks.mu.Unlock()

	if !globalUdisks.dialed {
		globalUdisks.dialed = true
		conn, err := dbus.ConnectSystemBus()
		globalUdisks.conn = conn
		globalUdisks.dialErr = err
	}
	if globalUdisks.dialErr != nil || globalUdisks.conn == nil {
		return ""
	}

	objPath := dbus.ObjectPath("/org/freedesktop/UDisks2/block_devices/" + lastPathComponent(device))
	obj := globalUdisks.conn.Object("org.freedesktop.UDisks2", objPath)

	var label string
	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0,
		"org.freedesktop.UDisks2.Block", "IdLabel")
	if call.Err != nil {
		return ""
	}
	if err := call.Store(&label); err != nil {
		return ""
	}
	return label
}

func lastPathComponent(device string) string {
	for i := len(device) - 1; i >= 0; i-- {
		if device[i] == '/' {
			return device[i+1:]
		}
	}
	return device
}
