package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/cache"
	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs"
	"github.com/tomhendersonfl/conda/pkg/metadata"
)

func setupExtractedPackage(t *testing.T, pkgsDir, tail string) {
	t.Helper()
	root := filepath.Join(pkgsDir, tail)
	infoDir := filepath.Join(root, "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "index.json"), []byte(`{"name":"foo","version":"1.0","build":"0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "files"), []byte("bin/foo\n"), 0644); err != nil {
		t.Fatal(err)
	}
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "foo"), []byte("#!/bin/sh\necho hi\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestLinkThenUnlinkRoundTrip(t *testing.T) {
	pkgsDir := t.TempDir()
	prefix := t.TempDir()
	tail := "foo-1.0-0"
	setupExtractedPackage(t, pkgsDir, tail)

	cacheIndex := cache.NewIndex([]string{pkgsDir})
	cacheIndex.AddCachedPackage(pkgsDir, "unknown/"+tail, false, false)

	metaStore := metadata.NewStore()
	e := New(prefix, cacheIndex, metaStore, nil, nil)

	d := dist.Key(tail)
	if err := e.Link(prefix, d, fs.LinkTypeCopy, map[string]interface{}{"name": "foo"}); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	linkedFile := filepath.Join(prefix, "bin", "foo")
	if _, err := os.Stat(linkedFile); err != nil {
		t.Fatalf("expected linked file to exist: %v", err)
	}

	metaPath := filepath.Join(prefix, metadata.MetaDirName, tail+".json")
	if _, err := os.Stat(metaPath); err != nil {
		t.Fatalf("expected metadata file: %v", err)
	}

	if err := e.Unlink(prefix, d, nil); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}

	if _, err := os.Stat(linkedFile); !os.IsNotExist(err) {
		t.Errorf("expected linked file removed, stat err = %v", err)
	}
	if _, err := os.Stat(metaPath); !os.IsNotExist(err) {
		t.Errorf("expected metadata removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(prefix, "bin")); !os.IsNotExist(err) {
		t.Errorf("expected now-empty bin dir collapsed, stat err = %v", err)
	}
}

func TestLinkCacheDistSkipsMetadata(t *testing.T) {
	pkgsDir := t.TempDir()
	prefix := t.TempDir()
	tail := "_cache-1.0-0"
	setupExtractedPackage(t, pkgsDir, tail)

	cacheIndex := cache.NewIndex([]string{pkgsDir})
	cacheIndex.AddCachedPackage(pkgsDir, "unknown/"+tail, false, false)

	metaStore := metadata.NewStore()
	e := New(prefix, cacheIndex, metaStore, nil, nil)

	if err := e.Link(prefix, dist.Key(tail), fs.LinkTypeCopy, nil); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	metaPath := filepath.Join(prefix, metadata.MetaDirName, tail+".json")
	if _, err := os.Stat(metaPath); !os.IsNotExist(err) {
		t.Errorf("expected no metadata for _cache package, stat err = %v", err)
	}
}

func TestLinkEmptyFilesManifest(t *testing.T) {
	pkgsDir := t.TempDir()
	prefix := t.TempDir()
	tail := "empty-1.0-0"

	root := filepath.Join(pkgsDir, tail)
	infoDir := filepath.Join(root, "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "index.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "files"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cacheIndex := cache.NewIndex([]string{pkgsDir})
	cacheIndex.AddCachedPackage(pkgsDir, "unknown/"+tail, false, false)
	metaStore := metadata.NewStore()
	e := New(prefix, cacheIndex, metaStore, nil, nil)

	if err := e.Link(prefix, dist.Key(tail), fs.LinkTypeCopy, nil); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	record, ok, err := metaStore.LoadMeta(prefix, dist.Key(tail))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected metadata record")
	}
	if len(record.Files) != 0 {
		t.Errorf("expected empty files list, got %v", record.Files)
	}
}
