//go:build !linux

package fs

import (
	"io/fs"
	"time"
)

// accessTime returns the modification time; access times are only read on Linux.
func accessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
