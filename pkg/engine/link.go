package engine

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs"
	"github.com/tomhendersonfl/conda/pkg/fs/locking"
	"github.com/tomhendersonfl/conda/pkg/metadata"
	"github.com/tomhendersonfl/conda/pkg/rewrite"
	"github.com/tomhendersonfl/conda/pkg/scripts"
)

// cacheDistName is the sentinel package name that opts a distribution out
// of rewriting, menu processing, post-link, and metadata entirely. It
// exists so that the engine's own installer payload can be linked without
// the engine trying to treat itself as an ordinary package.
const cacheDistName = "_cache"

// Link installs d from the package cache into prefix using linkType as the
// default per-file link mode. incomingIndex carries whatever fields a
// package's own info/index.json contributed (build string, dependencies,
// license, ...), which are preserved into the written metadata record's
// Extra.
func (e *Engine) Link(prefix string, d dist.Key, linkType fs.LinkType, incomingIndex map[string]interface{}) error {
	extractedDir, err := e.Cache.Extracted(d)
	if err != nil {
		return err
	}
	if extractedDir == "" {
		return errors.Errorf("%s is not extracted", d)
	}
	infoDir := filepath.Join(extractedDir, "info")

	if ok, err := scripts.Run(e.RootPrefix, prefix, d, scripts.PreLink, ""); err != nil {
		return err
	} else if !ok {
		return &ScriptFailedError{Dist: string(d), Action: string(scripts.PreLink)}
	}

	manifest, err := readLines(filepath.Join(infoDir, "files"))
	if err != nil {
		return err
	}
	hasPrefixEntries, err := rewrite.ParseHasPrefix(filepath.Join(infoDir, "has_prefix"))
	if err != nil {
		return err
	}
	noLink, err := readNoLink(infoDir)
	if err != nil {
		return err
	}

	pkgsDir := filepath.Dir(extractedDir)
	prefixLock, err := locking.Locked(prefix)
	if err != nil {
		return err
	}
	defer prefixLock.Exit()
	pkgsLock, err := locking.Locked(pkgsDir)
	if err != nil {
		return err
	}
	defer pkgsLock.Exit()

	for _, f := range manifest {
		if err := e.linkOneFile(extractedDir, prefix, f, linkType, hasPrefixEntries, noLink); err != nil {
			if e.Logger != nil {
				e.Logger.Warn(err)
			}
		}
	}

	if d.Name() == cacheDistName {
		return nil
	}

	for _, f := range sortedHasPrefixFiles(hasPrefixEntries) {
		entry := hasPrefixEntries[f]
		target := filepath.Join(prefix, f)
		newPrefix := rewrite.AdjustSeparators(entry.Placeholder, prefix)
		var rewriteErr error
		if entry.Mode == rewrite.ModeBinary {
			rewriteErr = rewrite.Binary(target, entry.Placeholder, newPrefix)
		} else {
			rewriteErr = rewrite.Text(target, entry.Placeholder, newPrefix)
		}
		if rewriteErr != nil {
			return rewriteErr
		}
	}

	if err := e.Menu.Install(prefix, manifest, false); err != nil && e.Logger != nil {
		e.Logger.Error(err)
	}

	if ok, err := scripts.Run(e.RootPrefix, prefix, d, scripts.PostLink, ""); err != nil {
		return err
	} else if !ok {
		return &ScriptFailedError{Dist: string(d), Action: string(scripts.PostLink)}
	}

	return e.persistLinkMetadata(prefix, d, extractedDir, manifest, linkType, incomingIndex)
}

// linkOneFile installs a single manifest entry, downgrading to a copy for
// prefix-dependent, no-link, or symlink sources as required.
func (e *Engine) linkOneFile(extractedDir, prefix, f string, linkType fs.LinkType, hasPrefixEntries map[string]rewrite.Entry, noLink map[string]bool) error {
	src := filepath.Join(extractedDir, f)
	dst := filepath.Join(prefix, f)

	if err := fs.EnsureParentDirectory(dst, 0755); err != nil {
		return &LinkFailedError{File: f, Err: err}
	}

	if _, err := os.Lstat(dst); err == nil {
		if removeErr := os.Remove(dst); removeErr != nil {
			return &LinkFailedError{File: f, Err: removeErr}
		}
	}

	mode := linkType
	if _, prefixDependent := hasPrefixEntries[f]; prefixDependent {
		mode = fs.LinkTypeCopy
	} else if matchesNoLink(noLink, f) {
		mode = fs.LinkTypeCopy
	} else if info, err := os.Lstat(src); err == nil && info.Mode()&os.ModeSymlink != 0 {
		mode = fs.LinkTypeCopy
	}

	if err := fs.Link(src, dst, mode); err != nil {
		return &LinkFailedError{File: f, Err: err}
	}
	return nil
}

// persistLinkMetadata assembles and writes the final conda-meta record for
// d.
func (e *Engine) persistLinkMetadata(prefix string, d dist.Key, extractedDir string, manifest []string, linkType fs.LinkType, incomingIndex map[string]interface{}) error {
	record := &metadata.Record{
		SChannel: d.Channel(),
		Fn:       d.ArchiveName(),
		Extra:    make(map[string]interface{}),
	}
	for k, v := range incomingIndex {
		record.Extra[k] = v
	}

	url, err := e.Cache.ReadURL(d)
	if err != nil {
		return err
	}
	record.URL = url

	filesSidecar := filepath.Join(prefix, metadata.MetaDirName, d.Tail()+".files")
	if sidecarLines, err := readLines(filesSidecar); err == nil && sidecarLines != nil {
		record.Files = sidecarLines
		os.Remove(filesSidecar)
	} else {
		record.Files = manifest
	}

	record.Link = &metadata.Link{Source: extractedDir, Type: linkType.String()}

	if _, hasIcon := record.Extra["icon"]; hasIcon {
		iconPath := filepath.Join(extractedDir, "info", "icon.png")
		if data, err := os.ReadFile(iconPath); err == nil {
			record.IconData = base64.StdEncoding.EncodeToString(data)
		}
	}

	return e.Metadata.Save(prefix, d, record)
}
