package cache

import (
	"archive/tar"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/dist"
)

// buildTarBz2 produces a minimal archive containing info/files and
// info/index.json plus one regular file, compressed with the system bzip2
// binary (the standard library only implements bzip2 decompression).
func buildTarBz2(t *testing.T, path string) {
	t.Helper()
	bzip2Path, err := exec.LookPath("bzip2")
	if err != nil {
		t.Skip("bzip2 binary not available")
	}

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	files := map[string]string{
		"info/index.json": "{}",
		"info/files":       "bin/foo\n",
		"bin/foo":          "#!/bin/sh\necho hi\n",
	}
	for name, contents := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(contents)),
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bzip2Path, "-z", "-c")
	cmd.Stdin = &tarBuf
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("bzip2 compression failed: %v", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractTarBz2(t *testing.T) {
	pdir := t.TempDir()
	archivePath := filepath.Join(pdir, "foo-1.0-0.tar.bz2")
	buildTarBz2(t, archivePath)

	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "unknown/foo-1.0-0.tar.bz2", false, false)

	if err := idx.Extract(dist.Key("foo-1.0-0")); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	extractedBin := filepath.Join(pdir, "foo-1.0-0", "bin", "foo")
	data, err := os.ReadFile(extractedBin)
	if err != nil {
		t.Fatalf("unable to read extracted file: %v", err)
	}
	if string(data) != "#!/bin/sh\necho hi\n" {
		t.Errorf("got %q", data)
	}
}
