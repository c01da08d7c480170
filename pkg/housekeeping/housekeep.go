// Package housekeeping performs best-effort periodic cleanup of the
// ephemeral, age-bounded junk the engine accumulates across invocations:
// quarantined trash directories and stale in-progress cache extractions.
// Nothing here is required for correctness of a single Link/Unlink call; it
// exists so that a long-lived cache directory doesn't grow forever.
package housekeeping

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomhendersonfl/conda/pkg/logging"
	"github.com/tomhendersonfl/conda/pkg/must"
)

const (
	// maximumTrashAge is the maximum period a quarantined trash subdirectory
	// is allowed to sit on disk before being purged outright.
	maximumTrashAge = 7 * 24 * time.Hour
	// maximumPartialExtractionAge is the maximum period an extracted tree
	// missing info/index.json (i.e. one interrupted mid-extraction) is
	// allowed to sit before being removed.
	maximumPartialExtractionAge = 24 * time.Hour
)

// Housekeep performs housekeeping across each of the given package cache
// directories. Errors along the way are logged and otherwise ignored, since
// housekeeping is an opportunistic side activity, not the caller's primary
// operation.
func Housekeep(cacheDirs []string, logger *logging.Logger) {
	for _, cacheDir := range cacheDirs {
		housekeepTrash(cacheDir, logger)
		housekeepPartialExtractions(cacheDir, logger)
	}
}

// housekeepTrash removes trash quarantine subdirectories older than
// maximumTrashAge, in case a prior DeleteTrash call failed or was never
// reached (e.g. process killed mid-run).
func housekeepTrash(cacheDir string, logger *logging.Logger) {
	trashDir := filepath.Join(cacheDir, ".trash")
	entries, err := os.ReadDir(trashDir)
	if err != nil {
		return
	}

	now := time.Now()
	for _, entry := range entries {
		fullPath := filepath.Join(trashDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maximumTrashAge {
			must.Succeed(os.RemoveAll(fullPath),
				fmt.Sprintf("remove stale trash entry %s", fullPath),
				logger,
			)
		}
	}

	// Opportunistically reclaim the trash directory itself once drained.
	os.Remove(trashDir)
}

// housekeepPartialExtractions removes extracted-tree directories that lack
// info/index.json (the marker of a package's metadata) and are old enough that
// they're very unlikely to be an extraction still in progress rather than
// one that was interrupted.
func housekeepPartialExtractions(cacheDir string, logger *logging.Logger) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return
	}

	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".trash" {
			continue
		}
		fullPath := filepath.Join(cacheDir, entry.Name())
		indexPath := filepath.Join(fullPath, "info", "index.json")
		if _, err := os.Stat(indexPath); err == nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maximumPartialExtractionAge {
			must.Succeed(os.RemoveAll(fullPath),
				fmt.Sprintf("remove stale partial extraction %s", fullPath),
				logger,
			)
		}
	}
}
