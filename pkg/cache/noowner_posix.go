//go:build !windows

package cache

import (
	"os"
	"path/filepath"
)

// applyNoSameOwner chowns every entry under destDir to root:root when the
// current process is running as root, so that extracted package contents
// never carry ownership inherited from whatever UID built the archive.
// It is a best-effort policy; failures are not fatal to extraction.
func applyNoSameOwner(destDir string) {
	if os.Geteuid() != 0 {
		return
	}
	filepath.Walk(destDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		os.Lchown(path, 0, 0)
		return nil
	})
}
