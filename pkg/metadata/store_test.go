package metadata

import (
	"path/filepath"
	"testing"

	"github.com/tomhendersonfl/conda/pkg/dist"
)

func TestSaveAndLoad(t *testing.T) {
	prefix := t.TempDir()
	store := NewStore()

	record := &Record{
		SChannel: "defaults",
		Fn:       "foo-1.0-0.tar.bz2",
		URL:      "https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2",
		Files:    []string{"bin/foo"},
		Link:     &Link{Source: "/cache/foo-1.0-0", Type: "hard-link"},
	}

	if err := store.Save(prefix, dist.Key("foo-1.0-0"), record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(prefix, MetaDirName, "foo-1.0-0.json")
	loaded, err := store.load(prefix, "foo-1.0-0")
	if err != nil {
		t.Fatalf("load failed reading %s: %v", path, err)
	}
	if loaded.Fn != record.Fn || loaded.SChannel != record.SChannel {
		t.Errorf("got %+v", loaded)
	}
}

func TestLinkedEmptyPrefix(t *testing.T) {
	store := NewStore()
	records, err := store.Linked(t.TempDir())
	if err != nil {
		t.Fatalf("Linked failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty map, got %v", records)
	}
}

func TestLinkedLoadsExisting(t *testing.T) {
	prefix := t.TempDir()
	store := NewStore()

	record := &Record{SChannel: "defaults", Fn: "bar-1.0-0.tar.bz2", Files: []string{}}
	if err := store.Save(prefix, dist.Key("bar-1.0-0"), record); err != nil {
		t.Fatal(err)
	}

	fresh := NewStore()
	records, err := fresh.Linked(prefix)
	if err != nil {
		t.Fatalf("Linked failed: %v", err)
	}
	if _, ok := records[dist.Key("bar-1.0-0")]; !ok {
		t.Errorf("expected bar-1.0-0 to be present, got %v", records)
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	prefix := t.TempDir()
	store := NewStore()
	d := dist.Key("baz-1.0-0")

	if err := store.Save(prefix, d, &Record{SChannel: "defaults", Fn: "baz-1.0-0.tar.bz2", Files: []string{}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(prefix, d, true); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	record, ok, err := store.LoadMeta(prefix, d)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Errorf("expected record to be gone after Delete, got %+v", record)
	}
}

func TestClassifyChannelViaURL(t *testing.T) {
	record := &Record{SChannel: "", URL: "https://repo.anaconda.com/pkgs/main/linux-64/foo-1.0-0.tar.bz2", Fn: "foo-1.0-0.tar.bz2", Files: []string{}}
	prefix := t.TempDir()
	store := NewStore()
	if err := store.Save(prefix, dist.Key("foo-1.0-0"), record); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.load(prefix, "foo-1.0-0")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.SChannel != "main" {
		t.Errorf("got schannel %q, want %q", loaded.SChannel, "main")
	}
}
