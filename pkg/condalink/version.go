// Package condalink holds process-wide identity and debug state for the
// engine: its version and the debug-mode environment switch that the rest
// of the module consults for verbose logging.
package condalink

import (
	"fmt"
	"os"
)

const (
	// VersionMajor is the current major version of the engine.
	VersionMajor = 0
	// VersionMinor is the current minor version of the engine.
	VersionMinor = 1
	// VersionPatch is the current patch version of the engine.
	VersionPatch = 0
)

// Version is the engine's version string, of the form "major.minor.patch".
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// DebugEnabled controls whether verbose/debug logging is active. It is set
// automatically from the CONDALINK_DEBUG environment variable but may also be
// set directly by an embedding program.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("CONDALINK_DEBUG") == "1"
}
