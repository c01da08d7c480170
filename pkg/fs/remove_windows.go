package fs

import (
	"os"
	"os/exec"
	"path/filepath"
)

// removeDirectoryPlatformFallback implements the Windows-specific recovery
// sequence: clear read-only attributes and retry, then shell out to the
// native "rd /s /q", then (if trash is configured) move the subtree into
// quarantine.
func removeDirectoryPlatformFallback(path string, options RemoveOptions) (resolved bool, err error) {
	clearReadOnly(path)
	if os.RemoveAll(path) == nil {
		return true, nil
	}

	cmd := exec.Command("cmd", "/c", "rd", "/s", "/q", filepath.Clean(path))
	if runErr := cmd.Run(); runErr == nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return true, nil
		}
	}

	if options.Trash == nil {
		return false, nil
	}
	return options.Trash.Move(path)
}

// clearReadOnly walks path clearing the read-only attribute from every
// entry so that a subsequent delete attempt is not blocked by it.
func clearReadOnly(root string) {
	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		os.Chmod(p, info.Mode()|0200)
		return nil
	})
}
