package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigurationValid = `
rootPrefix: /opt/condalink
pkgsDirs:
  - /opt/condalink/pkgs
  - /home/user/.condalink/pkgs
defaultLinkType: hard-link
maximumCacheSize: 5 GB
`

func TestLoadNonExistent(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal("load from non-existent path failed:", err)
	}
	if c == nil {
		t.Fatal("load from non-existent path returned nil configuration")
	}
	if len(c.PkgsDirs) != 0 {
		t.Errorf("expected empty PkgsDirs for missing file, got %v", c.PkgsDirs)
	}
}

func TestLoadGibberish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("[a+1a4"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("load did not fail on gibberish configuration")
	}
}

func TestLoadValidConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(testConfigurationValid), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal("load from valid configuration failed:", err)
	}
	if c.RootPrefix != "/opt/condalink" {
		t.Errorf("unexpected RootPrefix: %q", c.RootPrefix)
	}
	if len(c.PkgsDirs) != 2 {
		t.Fatalf("expected 2 pkgsDirs, got %d", len(c.PkgsDirs))
	}
	if c.DefaultLinkType != "hard-link" {
		t.Errorf("unexpected DefaultLinkType: %q", c.DefaultLinkType)
	}
	if c.MaximumCacheSize != 5_000_000_000 {
		t.Errorf("unexpected MaximumCacheSize: %d", c.MaximumCacheSize)
	}
}

func TestLoadDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("load did not fail on directory path")
	}
}
