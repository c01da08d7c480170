package engine

import (
	"os"
	"path/filepath"

	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs"
)

// TryHardLink probes whether pkgsDir/<tail>/info/index.json can be hard
// linked into prefix, used to decide the default link type (HARD vs COPY)
// for a batch.
func TryHardLink(pkgsDir string, d dist.Key, prefix string) bool {
	src := filepath.Join(pkgsDir, d.Tail(), "info", "index.json")
	dst := filepath.Join(prefix, ".tmp-"+d.Tail())
	defer os.Remove(dst)

	return fs.Link(src, dst, fs.LinkTypeHard) == nil
}
