package configuration

import (
	"os"

	"github.com/tomhendersonfl/conda/pkg/encoding"
)

// YAMLConfiguration is the condalink YAML configuration object type.
type YAMLConfiguration struct {
	// RootPrefix is the engine's own install prefix, used as both
	// ROOT_PREFIX for lifecycle scripts and as the default --prefix target.
	RootPrefix string `yaml:"rootPrefix"`
	// PkgsDirs is the ordered list of package cache directories.
	PkgsDirs []string `yaml:"pkgsDirs"`
	// DefaultLinkType names a link type ("hard-link", "soft-link", or
	// "copy"). It is parsed but not consulted: the CLI always probes the
	// link type.
	DefaultLinkType string `yaml:"defaultLinkType"`
	// MaximumCacheSize is a package cache size limit. It is parsed but not
	// consulted: housekeeping removes entries by age only, not by size.
	MaximumCacheSize ByteSize `yaml:"maximumCacheSize"`
}

// Load attempts to load a YAML-based condalink configuration file from the
// specified path. A missing file is not an error: it returns a
// zero-value configuration so callers can fall back to flags/environment.
func Load(path string) (*YAMLConfiguration, error) {
	result := &YAMLConfiguration{}

	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, err
	}

	return result, nil
}
