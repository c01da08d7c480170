package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs"
	"github.com/tomhendersonfl/conda/pkg/fs/locking"
	"github.com/tomhendersonfl/conda/pkg/metadata"
	"github.com/tomhendersonfl/conda/pkg/scripts"
	"github.com/tomhendersonfl/conda/pkg/trash"
)

// Unlink removes distribution d from prefix:
// best-effort pre-unlink, per-file removal, metadata deletion, and
// deepest-first collapse of any directories left empty.
func (e *Engine) Unlink(prefix string, d dist.Key, trashMover *trash.Trash) error {
	prefixLock, err := locking.Locked(prefix)
	if err != nil {
		return err
	}
	defer prefixLock.Exit()

	// pre-unlink is best-effort; its result is intentionally ignored.
	scripts.Run(e.RootPrefix, prefix, d, scripts.PreUnlink, "")

	record, ok, err := e.Metadata.LoadMeta(prefix, d)
	if err != nil {
		return err
	}
	var files []string
	if ok {
		files = record.Files
	}

	if err := e.Menu.Install(prefix, files, true); err != nil && e.Logger != nil {
		e.Logger.Error(err)
	}

	for _, f := range files {
		target := filepath.Join(prefix, f)
		if err := os.Remove(target); err != nil {
			if e.Logger != nil {
				e.Logger.Debugf("unable to remove %s: %v", target, err)
			}
			if runtime.GOOS == "windows" && trashMover != nil {
				if _, statErr := os.Stat(target); statErr == nil {
					trashMover.Move(target)
				}
			}
		}
	}

	if err := e.Metadata.Delete(prefix, d, true); err != nil {
		return err
	}

	collapseEmptyDirectories(prefix, files)
	return nil
}

// collapseEmptyDirectories removes, deepest-first, every ancestor
// directory of the installed files (down to but not above prefix itself,
// including <prefix>/conda-meta) that is now empty.
func collapseEmptyDirectories(prefix string, files []string) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, f := range files {
		dir := filepath.Dir(filepath.Join(prefix, f))
		for {
			add(dir)
			if dir == prefix || !strings.HasPrefix(dir, prefix+string(filepath.Separator)) {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	add(filepath.Join(prefix, metadata.MetaDirName))
	add(prefix)

	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})
	for _, dir := range dirs {
		fs.RemoveEmptyDirectory(dir)
	}
}
