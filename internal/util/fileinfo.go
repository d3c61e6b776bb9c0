package util

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileInfo is the identity of a recording file: modification time,
// size, and inode number. Follow mode compares identities to detect
// rotation or replacement of the file being tailed.
type FileInfo struct {
	ModTime int64
	Size    int64
	Inode   uint64
}

// GetFileInfo retrieves the file identity. Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	var sys unix.Stat_t
	if err := unix.Stat(filepath, &sys); err != nil {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   sys.Ino,
	}, nil
}
