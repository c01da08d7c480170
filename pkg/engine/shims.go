package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// activationScriptNames are the shell entry points symlinked (or, on
// Windows, redirected via a generated .bat) from the root installation
// into a non-root prefix, so that "source activate" works from inside a
// created environment.
var activationScriptNames = []string{"conda", "activate", "deactivate"}

// SymlinkActivationScripts installs the conda/activate/deactivate shims
// into prefix, redirecting to the copies in rootDir. It is a no-op for the
// root environment itself, matching the source's "do not symlink root env"
// rule, since re-shimming root onto itself would clobber activation.
func (e *Engine) SymlinkActivationScripts(prefix, rootDir, shell string) error {
	if samePath(prefix, rootDir) {
		return nil
	}

	where := "bin"
	if runtime.GOOS == "windows" {
		where = "Scripts"
	}

	prefixWhere := filepath.Join(prefix, where)
	if err := os.MkdirAll(prefixWhere, 0755); err != nil {
		return errors.Wrap(err, "unable to create shim directory")
	}

	for _, name := range activationScriptNames {
		rootFile := filepath.Join(rootDir, where, name)
		prefixFile := filepath.Join(prefixWhere, name)

		// Remove a stale shim if one exists; if it's in use (e.g. held open
		// on Windows) leave it and skip recreating it, matching the
		// source's "if they're in use, they won't be killed" handling.
		if _, err := os.Lstat(prefixFile); err == nil {
			os.Remove(prefixFile)
		}
		if _, err := os.Lstat(prefixFile); err == nil {
			continue
		}

		if runtime.GOOS == "windows" {
			if err := winCondaBatRedirect(rootFile, prefixFile, shell); err != nil {
				return err
			}
			continue
		}
		if err := os.Symlink(rootFile, prefixFile); err != nil {
			return errors.Wrapf(err, "unable to create shim for %s", name)
		}
	}
	return nil
}

// winCondaBatRedirect creates dst+".bat", forwarding all arguments to src,
// when shell names cmd.exe. For any other shell (PowerShell, cygwin/msys,
// or an empty string) it creates nothing.
func winCondaBatRedirect(src, dst, shell string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "unable to create shim directory")
	}

	lowerShell := strings.ToLower(shell)
	switch {
	case strings.Contains(lowerShell, "cmd.exe"):
		contents := fmt.Sprintf("@echo off\n\"%s\" %%*\n", src)
		return os.WriteFile(dst+".bat", []byte(contents), 0755)
	case strings.Contains(lowerShell, "powershell"):
		// No redirect is generated for PowerShell, matching the source's
		// placeholder behavior.
		return nil
	default:
		return nil
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return filepath.Clean(absA) == filepath.Clean(absB)
}
