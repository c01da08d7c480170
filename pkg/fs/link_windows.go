package fs

import (
	"io"
	"os"
	"syscall"
	"unsafe"

	"github.com/hectane/go-acl"
	"golang.org/x/sys/windows"
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procCreateHardLinkW = kernel32.NewProc("CreateHardLinkW")
	procCreateSymLinkW  = kernel32.NewProc("CreateSymbolicLinkW")
)

const symbolicLinkFlagDirectory = 0x1

// hardLink creates a hard link at dst pointing at the same file as src,
// using the Win32 CreateHardLinkW API (os.Link has no Windows
// implementation prior to directory junction support being irrelevant
// here, and the Win32 call gives us the precise error needed to detect
// an unsupported cross-volume link).
func hardLink(src, dst string) error {
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	r1, _, e1 := procCreateHardLinkW.Call(
		uintptr(unsafe.Pointer(dstPtr)),
		uintptr(unsafe.Pointer(srcPtr)),
		0,
	)
	if r1 == 0 {
		return &ErrLinkUnsupported{Type: LinkTypeHard, Err: e1}
	}
	return nil
}

// softLink creates a symbolic link at dst pointing at src using the Win32
// CreateSymbolicLinkW API, which is unavailable on older (pre-Vista)
// systems; in that case we surface ErrLinkUnsupported so the engine can
// fall back to copy mode.
func softLink(src, dst string) error {
	if procCreateSymLinkW.Find() != nil {
		return &ErrLinkUnsupported{Type: LinkTypeSoft, Err: syscall.ENOSYS}
	}
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	var flags uintptr
	if info, statErr := os.Stat(src); statErr == nil && info.IsDir() {
		flags = symbolicLinkFlagDirectory
	}
	r1, _, e1 := procCreateSymLinkW.Call(
		uintptr(unsafe.Pointer(dstPtr)),
		uintptr(unsafe.Pointer(srcPtr)),
		flags,
	)
	if r1 == 0 {
		return &ErrLinkUnsupported{Type: LinkTypeSoft, Err: e1}
	}
	return nil
}

// copyPath performs a copy-mode materialization. Windows has no first-class
// notion of a relative symbolic link used by package builds, so every
// source is deep-copied.
func copyPath(src, dst string) error {
	return deepCopy(src, dst)
}

// deepCopy copies the regular file at src to dst, preserving permissions
// (via go-acl, since os.Chmod does not translate to real Windows ACLs) and
// modification time.
func deepCopy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(dst)
		return err
	}

	if err := destination.Close(); err != nil {
		return err
	}

	if err := acl.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
