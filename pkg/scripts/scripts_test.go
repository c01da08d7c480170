package scripts

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/dist"
)

func TestRunMissingScriptSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script path only")
	}
	prefix := t.TempDir()
	ok, err := Run(prefix, prefix, dist.Key("foo-1.0-0"), PostLink, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !ok {
		t.Error("expected true for absent script")
	}
}

func TestRunSuccessfulScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script path only")
	}
	prefix := t.TempDir()
	binDir := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(binDir, ".foo-post-link.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\ntest \"$PKG_NAME\" = foo\n"), 0755); err != nil {
		t.Fatal(err)
	}

	ok, err := Run(prefix, prefix, dist.Key("foo-1.0-0"), PostLink, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !ok {
		t.Error("expected script to succeed")
	}
}

func TestRunFailingScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script path only")
	}
	prefix := t.TempDir()
	binDir := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(binDir, ".foo-pre-unlink.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 1\n"), 0755); err != nil {
		t.Fatal(err)
	}

	ok, err := Run(prefix, prefix, dist.Key("foo-1.0-0"), PreUnlink, "")
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if ok {
		t.Error("expected script failure to report false")
	}
}

func TestScriptPathNaming(t *testing.T) {
	prefix := "/prefix"
	path := scriptPath(prefix, dist.Key("foo-1.0-0"), PostLink)
	var want string
	if runtime.GOOS == "windows" {
		want = filepath.Join(prefix, "Scripts", ".foo-post-link.bat")
	} else {
		want = filepath.Join(prefix, "bin", ".foo-post-link.sh")
	}
	if path != want {
		t.Errorf("got %q, want %q", path, want)
	}
}
