// Package cache implements the package cache index: the set of archives and
// extracted directories available across one or more configured cache
// directories, and the operations that mutate them.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs/locking"
)

// bootstrapState tracks the Index's lazy-initialization state machine, the
// systems-language equivalent of the source's '@' sentinel key used to
// guard against add_cached_package recursing back into package_cache
// during the initial scan.
type bootstrapState int

const (
	uninitialized bootstrapState = iota
	initializing
	ready
)

// Record is a package cache entry: the archive paths, extracted directory
// paths, and source URLs known for one channel-qualified distribution.
type Record struct {
	Files []string
	Dirs  []string
	URLs  []string
}

// Index is the package cache: a process-lifetime map from channel-qualified
// distribution key to Record, together with the fname-to-channel
// disambiguation table used when two channels publish an archive with the
// identical filename.
type Index struct {
	mu         sync.Mutex
	pkgsDirs   []string
	state      bootstrapState
	records    map[dist.Key]*Record
	fnameTable map[string]string
}

// NewIndex returns an Index over the given package cache directories,
// uninitialized until the first call that needs the full scan.
func NewIndex(pkgsDirs []string) *Index {
	return &Index{
		pkgsDirs:   pkgsDirs,
		records:    make(map[dist.Key]*Record),
		fnameTable: make(map[string]string),
	}
}

// PkgsDirs returns the configured package cache directories, in the order
// they are searched.
func (idx *Index) PkgsDirs() []string {
	return idx.pkgsDirs
}

// PackageCache returns the full index, scanning every configured cache
// directory on first call. Subsequent calls return the memoized result.
func (idx *Index) PackageCache() (map[dist.Key]*Record, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.packageCacheLocked()
}

func (idx *Index) packageCacheLocked() (map[dist.Key]*Record, error) {
	if idx.state == ready {
		return idx.records, nil
	}
	if idx.state == initializing {
		// Reentrant call during bootstrap (e.g. from within
		// addCachedPackageLocked): return what has accumulated so far
		// without re-scanning.
		return idx.records, nil
	}

	idx.state = initializing
	for _, pdir := range idx.pkgsDirs {
		urlsPath := filepath.Join(pdir, "urls.txt")
		if data, err := os.ReadFile(urlsPath); err == nil {
			urls := strings.Fields(string(data))
			for i := len(urls) - 1; i >= 0; i-- {
				if strings.Contains(urls[i], "/") {
					idx.addCachedPackageLocked(pdir, urls[i], false, false)
				}
			}
		} else if !os.IsNotExist(err) {
			idx.state = uninitialized
			return nil, errors.Wrap(err, "unable to read urls.txt")
		}

		names, err := godirwalk.ReadDirnames(pdir, nil)
		if err != nil {
			continue
		}
		for _, name := range names {
			idx.addCachedPackageLocked(pdir, "unknown/"+name, false, false)
		}
	}
	idx.state = ready
	return idx.records, nil
}

// AddCachedPackage registers (or updates) a cache record derived from url
// found under pdir. dist is taken as the URL's last path segment with a
// ".tar.bz2" suffix stripped if present. If overwrite is false and the
// derived archive path is already claimed in the fname table, the call is
// a no-op. If recordInURLsTxt is true, the (possibly token-stripped) URL is
// appended to pdir/urls.txt on a best-effort basis.
func (idx *Index) AddCachedPackage(pdir, url string, overwrite, recordInURLsTxt bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addCachedPackageLocked(pdir, url, overwrite, recordInURLsTxt)
}

func (idx *Index) addCachedPackageLocked(pdir, url string, overwrite, recordInURLsTxt bool) {
	tail := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		tail = url[i+1:]
	}

	var fname string
	if strings.HasSuffix(tail, ".tar.bz2") {
		fname = tail
		tail = strings.TrimSuffix(tail, ".tar.bz2")
	} else {
		fname = tail + ".tar.bz2"
	}

	xpkg := filepath.Join(pdir, fname)
	if !overwrite {
		if _, claimed := idx.fnameTable[xpkg]; claimed {
			return
		}
	}
	if _, err := os.Stat(xpkg); err != nil {
		xpkg = ""
	}

	xdir := filepath.Join(pdir, tail)
	if !isExtractedTree(xdir) {
		xdir = ""
	}

	if xpkg == "" && xdir == "" {
		return
	}

	url = dist.StripBinstarToken(url)
	channel := dist.ClassifyURL(url)
	key := dist.WithChannel(channel, tail)

	idx.fnameTable[xpkg] = channelPrefix(channel)

	record, ok := idx.records[key]
	if !ok {
		record = &Record{}
		idx.records[key] = record
	}
	if !containsString(record.URLs, url) {
		record.URLs = append(record.URLs, url)
	}
	if xpkg != "" && !containsString(record.Files, xpkg) {
		record.Files = append(record.Files, xpkg)
	}
	if xdir != "" && !containsString(record.Dirs, xdir) {
		record.Dirs = append(record.Dirs, xdir)
	}

	if recordInURLsTxt {
		appendURLsTxt(pdir, url)
	}
}

// isExtractedTree reports whether xdir looks like a fully extracted
// package: it must contain info/files and info/index.json.
func isExtractedTree(xdir string) bool {
	info, err := os.Stat(xdir)
	if err != nil || !info.IsDir() {
		return false
	}
	if _, err := os.Stat(filepath.Join(xdir, "info", "files")); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(xdir, "info", "index.json")); err != nil {
		return false
	}
	return true
}

// channelPrefix returns the "<channel>::" disambiguation prefix used in the
// fname table, empty for the default channel.
func channelPrefix(channel string) string {
	if channel == "" || channel == dist.DefaultChannel {
		return ""
	}
	return channel + "::"
}

func appendURLsTxt(pdir, url string) {
	path := filepath.Join(pdir, "urls.txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(url + "\n")
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// Fetched returns the first archive path recorded for d, or "" if none.
func (idx *Index) Fetched(d dist.Key) (string, error) {
	record, err := idx.lookup(d)
	if err != nil || record == nil || len(record.Files) == 0 {
		return "", err
	}
	return record.Files[0], nil
}

// Extracted returns the first extracted directory recorded for d, or "" if
// none.
func (idx *Index) Extracted(d dist.Key) (string, error) {
	record, err := idx.lookup(d)
	if err != nil || record == nil || len(record.Dirs) == 0 {
		return "", err
	}
	return record.Dirs[0], nil
}

// IsFetched reports whether any archive is recorded for d.
func (idx *Index) IsFetched(d dist.Key) (bool, error) {
	path, err := idx.Fetched(d)
	return path != "", err
}

// IsExtracted reports whether any extracted directory is recorded for d.
func (idx *Index) IsExtracted(d dist.Key) (bool, error) {
	path, err := idx.Extracted(d)
	return path != "", err
}

// ReadURL returns the first source URL recorded for d, or "" if none.
func (idx *Index) ReadURL(d dist.Key) (string, error) {
	record, err := idx.lookup(d)
	if err != nil || record == nil || len(record.URLs) == 0 {
		return "", err
	}
	return record.URLs[0], nil
}

func (idx *Index) lookup(d dist.Key) (*Record, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, err := idx.packageCacheLocked(); err != nil {
		return nil, err
	}
	return idx.records[d], nil
}

// RmFetched removes every archive path recorded for d and drops the record
// from the index entirely, under a lock on d's package cache directory.
func (idx *Index) RmFetched(d dist.Key) error {
	idx.mu.Lock()
	record := idx.records[d]
	idx.mu.Unlock()
	if record == nil {
		return nil
	}

	for _, dirName := range cacheDirsOf(record.Files) {
		scoped, err := locking.Locked(dirName)
		if err != nil {
			return err
		}
		for _, f := range record.Files {
			if filepath.Dir(f) == dirName {
				os.Remove(f)
			}
		}
		scoped.Exit()
	}

	idx.mu.Lock()
	delete(idx.records, d)
	idx.mu.Unlock()
	return nil
}

// RmExtracted removes every extracted directory recorded for d under a
// lock on its package cache directory, and clears the record's Dirs.
func (idx *Index) RmExtracted(d dist.Key) error {
	idx.mu.Lock()
	record := idx.records[d]
	idx.mu.Unlock()
	if record == nil {
		return nil
	}

	for _, dirName := range cacheDirsOf(record.Dirs) {
		scoped, err := locking.Locked(dirName)
		if err != nil {
			return err
		}
		for _, d := range record.Dirs {
			if filepath.Dir(d) == dirName {
				os.RemoveAll(d)
			}
		}
		scoped.Exit()
	}

	idx.mu.Lock()
	record.Dirs = nil
	idx.mu.Unlock()
	return nil
}

func cacheDirsOf(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// FindNewLocation returns the package cache directory (and, if disambig­
// uation is needed, a directory-name hint) that a newly fetched
// distribution should be placed under. If d is already cached, its current
// directory is returned with an empty hint. Otherwise the configured cache
// directories are tried twice: first preferring one where the archive name
// is not already claimed by a different channel; failing that, the first
// configured directory is used, with a channel-qualified name hint to
// disambiguate it from the unprefixed original.
func (idx *Index) FindNewLocation(d dist.Key) (pkgsDir string, nameHint string, err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, err := idx.packageCacheLocked(); err != nil {
		return "", "", err
	}

	if record, ok := idx.records[d]; ok {
		if len(record.Files) > 0 {
			return filepath.Dir(record.Files[0]), "", nil
		}
		if len(record.Dirs) > 0 {
			return filepath.Dir(record.Dirs[0]), "", nil
		}
	}

	fname := d.ArchiveName()
	for _, pdir := range idx.pkgsDirs {
		if _, claimed := idx.fnameTable[filepath.Join(pdir, fname)]; !claimed {
			return pdir, "", nil
		}
	}

	if len(idx.pkgsDirs) == 0 {
		return "", "", errors.New("no package cache directories configured")
	}
	channel := d.Channel()
	return idx.pkgsDirs[0], channelPrefix(channel) + d.Tail(), nil
}
