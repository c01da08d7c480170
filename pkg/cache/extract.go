package cache

import (
	"archive/tar"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/fs/locking"
)

// Extract unpacks the first cached archive for d into its package cache
// directory, under a lock on that directory. Any stale extracted directory
// is removed first. On success, the cache entry is re-registered with
// overwrite=true so that the newly extracted directory is picked up.
func (idx *Index) Extract(d dist.Key) error {
	archivePath, err := idx.Fetched(d)
	if err != nil {
		return err
	}
	if archivePath == "" {
		return errors.Errorf("no cached archive for %s", d)
	}

	pkgsDir := filepath.Dir(archivePath)
	scoped, err := locking.Locked(pkgsDir)
	if err != nil {
		return err
	}
	defer scoped.Exit()

	destDir := filepath.Join(pkgsDir, d.Tail())
	if err := os.RemoveAll(destDir); err != nil {
		return errors.Wrap(err, "unable to remove stale extracted directory")
	}

	if err := extractTarBz2(archivePath, destDir); err != nil {
		return err
	}

	applyNoSameOwner(destDir)

	url, _ := idx.ReadURL(d)
	if url == "" {
		url = "unknown/" + filepath.Base(archivePath)
	}
	idx.AddCachedPackage(pkgsDir, url, true, false)
	return nil
}

// extractTarBz2 unpacks a bzip2-compressed tar archive into destDir,
// creating it if necessary. Entries are extracted in archive order;
// directories are created as needed and symlinks are recreated verbatim.
func extractTarBz2(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "unable to open archive")
	}
	defer file.Close()

	reader := tar.NewReader(bzip2.NewReader(file))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrap(err, "unable to create extraction directory")
	}

	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "unable to read archive entry")
		}

		target := filepath.Join(destDir, header.Name)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return errors.Wrapf(err, "unable to create directory %s", target)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return errors.Wrapf(err, "unable to create symlink %s", target)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := extractRegularFile(reader, target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
}

func extractRegularFile(reader io.Reader, target string, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", target)
	}
	defer out.Close()
	if _, err := io.Copy(out, reader); err != nil {
		return errors.Wrapf(err, "unable to write file %s", target)
	}
	return nil
}
