package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/dist"
)

func writeExtractedTree(t *testing.T, pdir, tail string) {
	t.Helper()
	infoDir := filepath.Join(pdir, tail, "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "files"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "index.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAddCachedPackageFromArchive(t *testing.T) {
	pdir := t.TempDir()
	archivePath := filepath.Join(pdir, "foo-1.0-0.tar.bz2")
	if err := os.WriteFile(archivePath, []byte("archive"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2", false, false)

	fetched, err := idx.Fetched(dist.Key("main::foo-1.0-0"))
	if err != nil {
		t.Fatalf("Fetched failed: %v", err)
	}
	if fetched != archivePath {
		t.Errorf("got %q, want %q", fetched, archivePath)
	}
}

func TestAddCachedPackageFromExtractedDir(t *testing.T) {
	pdir := t.TempDir()
	writeExtractedTree(t, pdir, "foo-1.0-0")

	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "unknown/foo-1.0-0", false, false)

	extracted, err := idx.Extracted(dist.Key("foo-1.0-0"))
	if err != nil {
		t.Fatalf("Extracted failed: %v", err)
	}
	if extracted != filepath.Join(pdir, "foo-1.0-0") {
		t.Errorf("got %q", extracted)
	}
}

func TestBootstrapFromURLsTxt(t *testing.T) {
	pdir := t.TempDir()
	archivePath := filepath.Join(pdir, "foo-1.0-0.tar.bz2")
	if err := os.WriteFile(archivePath, []byte("archive"), 0644); err != nil {
		t.Fatal(err)
	}
	url := "https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2"
	if err := os.WriteFile(filepath.Join(pdir, "urls.txt"), []byte(url+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := NewIndex([]string{pdir})
	records, err := idx.PackageCache()
	if err != nil {
		t.Fatalf("PackageCache failed: %v", err)
	}
	if _, ok := records[dist.Key("main::foo-1.0-0")]; !ok {
		t.Errorf("expected bootstrapped record, got %v", records)
	}
}

func TestIsFetchedIsExtracted(t *testing.T) {
	pdir := t.TempDir()
	if err := os.WriteFile(filepath.Join(pdir, "foo-1.0-0.tar.bz2"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "unknown/foo-1.0-0.tar.bz2", false, false)

	fetched, err := idx.IsFetched(dist.Key("foo-1.0-0"))
	if err != nil || !fetched {
		t.Errorf("expected IsFetched true, got %v err=%v", fetched, err)
	}
	extracted, err := idx.IsExtracted(dist.Key("foo-1.0-0"))
	if err != nil || extracted {
		t.Errorf("expected IsExtracted false, got %v err=%v", extracted, err)
	}
}

func TestFindNewLocationAlreadyCached(t *testing.T) {
	pdir := t.TempDir()
	if err := os.WriteFile(filepath.Join(pdir, "foo-1.0-0.tar.bz2"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "unknown/foo-1.0-0.tar.bz2", false, false)

	loc, hint, err := idx.FindNewLocation(dist.Key("foo-1.0-0"))
	if err != nil {
		t.Fatalf("FindNewLocation failed: %v", err)
	}
	if loc != pdir || hint != "" {
		t.Errorf("got loc=%q hint=%q", loc, hint)
	}
}

func TestFindNewLocationUnclaimed(t *testing.T) {
	pdir1 := t.TempDir()
	pdir2 := t.TempDir()
	idx := NewIndex([]string{pdir1, pdir2})

	loc, hint, err := idx.FindNewLocation(dist.Key("bar-1.0-0"))
	if err != nil {
		t.Fatalf("FindNewLocation failed: %v", err)
	}
	if loc != pdir1 || hint != "" {
		t.Errorf("got loc=%q hint=%q", loc, hint)
	}
}

func TestRmFetchedRemovesRecord(t *testing.T) {
	pdir := t.TempDir()
	archivePath := filepath.Join(pdir, "foo-1.0-0.tar.bz2")
	if err := os.WriteFile(archivePath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	idx := NewIndex([]string{pdir})
	idx.AddCachedPackage(pdir, "unknown/foo-1.0-0.tar.bz2", false, false)

	if err := idx.RmFetched(dist.Key("foo-1.0-0")); err != nil {
		t.Fatalf("RmFetched failed: %v", err)
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Errorf("expected archive removed, stat err = %v", err)
	}
	fetched, err := idx.Fetched(dist.Key("foo-1.0-0"))
	if err != nil {
		t.Fatal(err)
	}
	if fetched != "" {
		t.Errorf("expected empty after RmFetched, got %q", fetched)
	}
}
