//go:build !windows

package storage

import "golang.org/x/sys/unix"

// FreeBytes reports the number of bytes available to an unprivileged
// process on the volume containing path (spec §4.3's pre-flight space
// check, also exercised by the download engine before starting a
// transfer).
func FreeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
