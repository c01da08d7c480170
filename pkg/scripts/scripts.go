// Package scripts invokes a package's lifecycle scripts (pre-link,
// post-link, pre-unlink) with the environment the engine contracts to
// provide them.
package scripts

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/tomhendersonfl/conda/pkg/dist"
)

// Action identifies which lifecycle hook to run.
type Action string

const (
	PreLink   Action = "pre-link"
	PostLink  Action = "post-link"
	PreUnlink Action = "pre-unlink"
)

// scriptPath returns <prefix>/(bin|Scripts)/.<name>-<action>.(sh|bat).
func scriptPath(prefix string, d dist.Key, action Action) string {
	dir := "bin"
	ext := "sh"
	if runtime.GOOS == "windows" {
		dir = "Scripts"
		ext = "bat"
	}
	name := d.Name()
	return filepath.Join(prefix, dir, "."+name+"-"+string(action)+"."+ext)
}

// Run locates and, if present, executes the named lifecycle script for d in
// prefix. It returns true if the script does not exist (a no-op script
// trivially succeeds) or exits zero, and false if the script exits nonzero
// or (on Windows) if COMSPEC is not set. rootPrefix is the engine's own
// install prefix, reported to the script as ROOT_PREFIX; envPrefix
// overrides PREFIX when non-empty, defaulting to prefix.
func Run(rootPrefix, prefix string, d dist.Key, action Action, envPrefix string) (bool, error) {
	path := scriptPath(prefix, d, action)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrap(err, "unable to stat lifecycle script")
	}

	var args []string
	if runtime.GOOS == "windows" {
		comspec := os.Getenv("COMSPEC")
		if comspec == "" {
			return false, nil
		}
		args = []string{comspec, "/c", path}
	} else {
		shell := "/bin/bash"
		if strings.Contains(runtime.GOOS, "bsd") || runtime.GOOS == "darwin" {
			shell = "/bin/sh"
		}
		args = []string{shell, path}
	}

	env := append(os.Environ(),
		"ROOT_PREFIX="+rootPrefix,
		"PREFIX="+firstNonEmpty(envPrefix, prefix),
	)
	if pkgName, pkgVersion, pkgBuild, ok := packageFields(d); ok {
		env = append(env,
			"PKG_NAME="+pkgName,
			"PKG_VERSION="+pkgVersion,
			"PKG_BUILDNUM="+pkgBuild,
		)
	}
	if action == PreLink {
		env = append(env, "SOURCE_DIR="+prefix)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, errors.Wrap(err, "unable to run lifecycle script")
	}
	return true, nil
}

// packageFields splits a distribution's tail into PKG_NAME, PKG_VERSION,
// and PKG_BUILDNUM, the last three "-"-separated fields.
func packageFields(d dist.Key) (name, version, build string, ok bool) {
	tail := d.Tail()
	parts := strings.Split(tail, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	name = strings.Join(parts[:len(parts)-2], "-")
	version = parts[len(parts)-2]
	build = parts[len(parts)-1]
	return name, version, build, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
