//go:build windows

package pathvalidate

import (
	"strings"

	"golang.org/x/sys/windows"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// reservedDeviceNames are refused as any path component, with or
// without an extension (CON.txt is just as reserved as CON).
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// canonicalizePlatform resolves a Windows path to its long-path,
// backslash-separated canonical form, rejecting device-namespace
// prefixes, reserved device names, alternate-data-stream colons, and
// literal ".." components before ever touching the filesystem.
func canonicalizePlatform(op, path string) (string, error) {
	if len(windows.StringToUTF16(path)) > maxPathWindowsLong {
		return "", volinfo.NewError(op, volinfo.KindNameTooLong)
	}

	if strings.HasPrefix(path, `\\?\`) || strings.HasPrefix(path, `\\.\`) {
		return "", volinfo.NewError(op, volinfo.KindInvalidPath)
	}

	normalized := strings.ReplaceAll(path, "/", `\`)

	if err := checkComponents(op, normalized); err != nil {
		return "", err
	}

	longPath, err := windows.UTF16PtrFromString(normalized)
	if err != nil {
		return "", volinfo.Wrap(op, volinfo.KindInvalidPath, err)
	}

	buf := make([]uint16, maxPathWindowsLong)
	n, err := windows.GetLongPathName(longPath, &buf[0], uint32(len(buf)))
	if err != nil {
		if err == windows.ERROR_FILE_NOT_FOUND || err == windows.ERROR_PATH_NOT_FOUND {
			return normalized, nil
		}
		return "", volinfo.Wrap(op, volinfo.KindPlatformError, err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func checkComponents(op, path string) error {
	trimmed := strings.TrimPrefix(path, `\\`)
	parts := strings.Split(trimmed, `\`)
	for i, part := range parts {
		if part == ".." {
			return volinfo.NewError(op, volinfo.KindInvalidPath)
		}
		name := part
		if idx := strings.IndexByte(name, ':'); idx != -1 {
			// Offset-1 drive-letter colon ("C:") is legal only as the
			// first component; any other colon introduces an
			// alternate data stream name, which this engine refuses.
			if !(i == 0 && idx == 1) {
				return volinfo.NewError(op, volinfo.KindInvalidPath)
			}
			name = name[:idx]
		}
		base := strings.ToUpper(strings.TrimSuffix(name, filepathExt(name)))
		if _, reserved := reservedDeviceNames[base]; reserved {
			return volinfo.NewError(op, volinfo.KindInvalidPath)
		}
	}
	return nil
}

func filepathExt(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx != -1 {
		return name[idx:]
	}
	return ""
}
