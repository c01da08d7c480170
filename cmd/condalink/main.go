package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomhendersonfl/conda/cmd"
	"github.com/tomhendersonfl/conda/pkg/condalink"
)

func rootMain(command *cobra.Command, arguments []string) error {
	// Print version information, if requested.
	if rootConfiguration.version {
		fmt.Println(condalink.Version)
		return nil
	}

	// Generate bash completion script, if requested.
	if rootConfiguration.bashCompletionScript != "" {
		return command.GenBashCompletionFile(rootConfiguration.bashCompletionScript)
	}

	// With no subcommand given, the root command is the batch driver: link
	// (or, with --unlink, unlink) every distribution named by --file into
	// --prefix.
	return runBatch(command, arguments)
}

var rootCommand = &cobra.Command{
	Use:   "condalink",
	Short: "condalink links and unlinks extracted package cache entries into an environment prefix",
	Args:  cmd.DisallowArguments,
	Run:   cmd.Mainify(rootMain),
}

var rootConfiguration struct {
	// help indicates whether help information should be shown for the
	// command.
	help bool
	// version indicates whether version information should be shown.
	version bool
	// verbose enables logging of probe choice and per-distribution actions.
	verbose bool
	// file is the path to a file listing distributions to link, one per
	// line, with "#" comments stripped. Default: every extracted
	// distribution across the configured cache directories.
	file string
	// prefix is the target environment. Default: the engine's own install
	// prefix, taken from --root-prefix or the CONDALINK_ROOT_PREFIX
	// environment variable.
	prefix string
	// rootPrefix is the engine's own install prefix.
	rootPrefix string
	// cacheDirs are the package cache directories to search, in order.
	cacheDirs []string
	// config is an optional path to a YAML configuration file providing
	// defaults for rootPrefix/cacheDirs.
	config string
	// unlink, when set, makes the batch driver unlink rather than link
	// every named distribution.
	unlink bool
	// noShellShims skips installing the conda/activate/deactivate shims
	// into a non-root prefix after a successful batch link.
	noShellShims bool
	// bashCompletionScript is the path at which to generate a bash
	// completion script, if any.
	bashCompletionScript string
}

func init() {
	// Flags shared with the link/unlink subcommands go on PersistentFlags so
	// they're inherited; flags that only make sense for the root batch
	// driver itself stay on Flags.
	persistent := rootCommand.PersistentFlags()
	persistent.BoolVarP(&rootConfiguration.verbose, "verbose", "v", false, "Log probe choice and per-distribution actions")
	persistent.StringVar(&rootConfiguration.prefix, "prefix", "", "Target environment prefix")
	persistent.StringVar(&rootConfiguration.rootPrefix, "root-prefix", "", "The engine's own install prefix")
	persistent.StringArrayVar(&rootConfiguration.cacheDirs, "cache-dir", nil, "Package cache directory (may be repeated)")
	persistent.StringVar(&rootConfiguration.config, "config", "", "Path to a YAML configuration file")
	persistent.BoolVar(&rootConfiguration.noShellShims, "no-shell-shims", false, "Skip installing activation shims after a batch link")

	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")
	flags.StringVar(&rootConfiguration.file, "file", "", "File listing distributions to link/unlink, one per line")
	flags.BoolVar(&rootConfiguration.unlink, "unlink", false, "Unlink rather than link the named distributions")
	flags.StringVar(&rootConfiguration.bashCompletionScript, "generate-bash-completion", "", "Generate bash completion script")
	flags.MarkHidden("generate-bash-completion")

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		linkCommand,
		unlinkCommand,
		versionCommand,
	)
}

func main() {
	// Relaunch under winpty if we're running inside a mintty console; skip
	// this when Cobra is just generating shell completions.
	if !cmd.PerformingShellCompletion {
		cmd.HandleTerminalCompatibility()
	}

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
