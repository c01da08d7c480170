// Package must wraps best-effort cleanup calls (closing a file, releasing a
// lock, removing a stale path) made on non-fatal error and cleanup paths
// (in this module: housekeeping removals): the operation is attempted, and any failure is logged rather than
// propagated, since propagating it would mask the primary error the caller is
// already handling.
package must

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomhendersonfl/conda/pkg/logging"
)

// Close closes c, logging any failure rather than returning it.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn(err)
	}
}

// OSRemove removes the file at name, logging any failure rather than
// returning it.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warn(err)
	}
}

// Unlock releases locker, logging any failure rather than returning it.
func Unlock(locker interface{ Unlock() error }, logger *logging.Logger) {
	if err := locker.Unlock(); err != nil {
		logger.Warn(err)
	}
}

// Succeed logs err, annotated with task, if it is non-nil. It's used for
// best-effort operations whose failure should be visible but not fatal.
func Succeed(err error, task string, logger *logging.Logger) {
	if err != nil {
		logger.Warn(err)
		logger.Debugf("%s: best-effort step did not succeed", task)
	}
}

// CommandHelp prints c's help text, logging any failure rather than
// returning it.
func CommandHelp(c *cobra.Command, logger *logging.Logger) {
	if err := c.Help(); err != nil {
		logger.Warn(err)
	}
}
