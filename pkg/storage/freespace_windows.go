//go:build windows

package storage

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// FreeBytes reports the number of bytes available to the calling process on
// the volume containing path.
func FreeBytes(path string) (uint64, error) {
	var freeBytesAvailable uint64
	ptr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	if err := windows.GetDiskFreeSpaceEx(ptr, &freeBytesAvailable, nil, nil); err != nil {
		return 0, err
	}
	return freeBytesAvailable, nil
}
