//go:build linux

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime returns the last access time recorded in info.
// Falls back to the modification time when no *syscall.Stat_t is available.
func accessTime(info fs.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atim.Unix())
}
