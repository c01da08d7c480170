// Package engine orchestrates linking and unlinking one distribution into
// a prefix: enumerating files, choosing a per-file link mode, applying
// prefix rewrites, running lifecycle scripts, and persisting metadata
//.
package engine

import (
	"github.com/tomhendersonfl/conda/pkg/cache"
	"github.com/tomhendersonfl/conda/pkg/logging"
	"github.com/tomhendersonfl/conda/pkg/menu"
	"github.com/tomhendersonfl/conda/pkg/metadata"
)

// Engine carries the state a link/unlink operation needs: the cache index
// and linked-metadata store it reads and mutates, the engine's own install
// prefix (reported to scripts as ROOT_PREFIX), and its menu collaborator.
// Unlike the source, which keeps this as process-global module state, it is
// threaded explicitly so that multiple Engine values (e.g. under test) do
// not share mutable state.
type Engine struct {
	RootPrefix string
	Cache      *cache.Index
	Metadata   *metadata.Store
	Menu       menu.Installer
	Logger     *logging.Logger
}

// New constructs an Engine. A nil menu installer defaults to menu.NoOp. A
// nil logger is safe to use (pkg/logging.Logger is nil-safe).
func New(rootPrefix string, cacheIndex *cache.Index, metadataStore *metadata.Store, menuInstaller menu.Installer, logger *logging.Logger) *Engine {
	if menuInstaller == nil {
		menuInstaller = menu.NoOp{}
	}
	return &Engine{
		RootPrefix: rootPrefix,
		Cache:      cacheIndex,
		Metadata:   metadataStore,
		Menu:       menuInstaller,
		Logger:     logger,
	}
}
