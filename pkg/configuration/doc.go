// Package configuration provides loading facilities for condalink's
// optional YAML configuration file. The CLI reads it only when given
// --config, and then takes the root prefix and package cache directories
// from it where flags and the environment leave them unset; the same type
// is available to a larger tool embedding the engine as a library.
package configuration
