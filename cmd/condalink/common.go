package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/tomhendersonfl/conda/pkg/cache"
	"github.com/tomhendersonfl/conda/pkg/configuration"
	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/engine"
	"github.com/tomhendersonfl/conda/pkg/logging"
	"github.com/tomhendersonfl/conda/pkg/metadata"
)

// resolvedSettings holds the merged result of flags, environment variables,
// and an optional YAML configuration file (in that order of precedence).
type resolvedSettings struct {
	rootPrefix string
	prefix     string
	cacheDirs  []string
}

// resolveSettings merges --root-prefix/--prefix/--cache-dir with
// CONDALINK_ROOT_PREFIX and an optional --config file, flags taking
// precedence over the environment, which takes precedence over the file.
func resolveSettings() (*resolvedSettings, error) {
	result := &resolvedSettings{
		rootPrefix: rootConfiguration.rootPrefix,
		prefix:     rootConfiguration.prefix,
		cacheDirs:  rootConfiguration.cacheDirs,
	}

	if result.rootPrefix == "" {
		result.rootPrefix = os.Getenv("CONDALINK_ROOT_PREFIX")
	}

	if rootConfiguration.config != "" {
		config, err := configuration.Load(rootConfiguration.config)
		if err != nil {
			return nil, errors.Wrap(err, "unable to load configuration file")
		}
		if result.rootPrefix == "" {
			result.rootPrefix = config.RootPrefix
		}
		if len(result.cacheDirs) == 0 {
			result.cacheDirs = config.PkgsDirs
		}
	}

	if result.prefix == "" {
		result.prefix = result.rootPrefix
	}

	if result.rootPrefix == "" {
		return nil, errors.New("no root prefix specified (use --root-prefix, CONDALINK_ROOT_PREFIX, or --config)")
	}
	if len(result.cacheDirs) == 0 {
		return nil, errors.New("no package cache directories specified (use --cache-dir or --config)")
	}

	return result, nil
}

// buildEngine constructs an Engine and its backing cache index/metadata
// store from the resolved settings.
func buildEngine(settings *resolvedSettings, logger *logging.Logger) *engine.Engine {
	cacheIndex := cache.NewIndex(settings.cacheDirs)
	metadataStore := metadata.NewStore()
	return engine.New(settings.rootPrefix, cacheIndex, metadataStore, nil, logger)
}

// readDistFile reads a newline-separated list of distribution keys from
// path, stripping blank lines and "#"-prefixed comments.
func readDistFile(path string) ([]dist.Key, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open distribution list")
	}
	defer file.Close()

	var keys []dist.Key
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, dist.Key(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read distribution list")
	}

	return keys, nil
}

// allExtracted returns every distribution currently extracted across the
// configured cache directories, sorted, for use as the --file default.
func allExtracted(cacheIndex *cache.Index) ([]dist.Key, error) {
	records, err := cacheIndex.PackageCache()
	if err != nil {
		return nil, errors.Wrap(err, "unable to scan package cache")
	}

	var keys []dist.Key
	for k, record := range records {
		if len(record.Dirs) > 0 {
			keys = append(keys, k)
		}
	}
	dist.Sort(keys)
	return keys, nil
}

// printAndRemoveMessages prints prefix/.messages.txt to standard output and
// removes it, matching the original installer's end-of-batch behavior.
func printAndRemoveMessages(prefix string) {
	path := prefix + string(os.PathSeparator) + ".messages.txt"
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	fmt.Print(string(data))
	os.Remove(path)
}

// describeCacheStats renders a human-readable one-line summary of how many
// archives and extracted trees a cache index holds, and their total size,
// for --verbose output.
func describeCacheStats(cacheIndex *cache.Index) string {
	records, err := cacheIndex.PackageCache()
	if err != nil {
		return fmt.Sprintf("unable to read cache statistics: %v", err)
	}

	var archives, extracted int
	var totalSize uint64
	for _, record := range records {
		archives += len(record.Files)
		extracted += len(record.Dirs)
		for _, archivePath := range record.Files {
			if info, err := os.Stat(archivePath); err == nil {
				totalSize += uint64(info.Size())
			}
		}
	}

	return fmt.Sprintf(
		"%d distributions known (%d cached archives, %d extracted trees, %s indexed)",
		len(records), archives, extracted, humanize.Bytes(totalSize),
	)
}
