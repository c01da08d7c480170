package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/cache"
	"github.com/tomhendersonfl/conda/pkg/metadata"
)

func TestSymlinkActivationScriptsSkipsRoot(t *testing.T) {
	root := t.TempDir()
	e := New(root, cache.NewIndex(nil), metadata.NewStore(), nil, nil)

	if err := e.SymlinkActivationScripts(root, root, ""); err != nil {
		t.Fatalf("expected no-op for root prefix, got error: %v", err)
	}
}

func TestSymlinkActivationScriptsCreatesShims(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix symlink path only")
	}
	root := t.TempDir()
	prefix := t.TempDir()

	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range activationScriptNames {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	e := New(root, cache.NewIndex(nil), metadata.NewStore(), nil, nil)
	if err := e.SymlinkActivationScripts(prefix, root, ""); err != nil {
		t.Fatalf("SymlinkActivationScripts failed: %v", err)
	}

	for _, name := range activationScriptNames {
		link := filepath.Join(prefix, "bin", name)
		info, err := os.Lstat(link)
		if err != nil {
			t.Fatalf("expected shim for %s: %v", name, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			t.Errorf("expected %s to be a symlink", name)
		}
	}
}
