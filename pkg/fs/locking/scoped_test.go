package locking

import (
	"path/filepath"
	"testing"
)

func TestLockedExitIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := Locked(dir)
	if err != nil {
		t.Fatalf("Locked failed: %v", err)
	}
	if err := s.Exit(); err != nil {
		t.Fatalf("Exit failed: %v", err)
	}
	if err := s.Exit(); err != nil {
		t.Fatalf("second Exit should be a no-op, got: %v", err)
	}
}

func TestLockedNesting(t *testing.T) {
	prefix := t.TempDir()
	pkgs := filepath.Join(t.TempDir(), "pkgs")

	prefixLock, err := Locked(prefix)
	if err != nil {
		t.Fatalf("Locked(prefix) failed: %v", err)
	}
	defer prefixLock.Exit()

	pkgsLock, err := Locked(pkgs)
	if err != nil {
		t.Fatalf("Locked(pkgs) failed: %v", err)
	}
	if err := pkgsLock.Exit(); err != nil {
		t.Fatalf("Exit(pkgs) failed: %v", err)
	}
}

func TestNewLockerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lock")
	l, err := NewLocker(path, 0644)
	if err != nil {
		t.Fatalf("NewLocker failed: %v", err)
	}
	defer l.Close()
	if err := l.Lock(true); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if err := l.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
}
