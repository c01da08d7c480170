package configuration

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// globalConfigurationName is the filename of condalink's optional global
// YAML configuration file, stored in the user's home directory.
const globalConfigurationName = ".condalink.yml"

// GlobalConfigurationPath returns the path of the YAML-based global
// configuration file. It does not verify that the file exists.
func GlobalConfigurationPath() (string, error) {
	homeDirectoryPath, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to compute path to home directory")
	}

	return filepath.Join(homeDirectoryPath, globalConfigurationName), nil
}
