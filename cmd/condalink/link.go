package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomhendersonfl/conda/cmd"
	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/engine"
	"github.com/tomhendersonfl/conda/pkg/fs"
	"github.com/tomhendersonfl/conda/pkg/logging"
)

// runBatch implements the root command's default behavior: link (or, with
// --unlink, unlink) every distribution named by --file (default: every
// extracted distribution in the cache) into --prefix.
func runBatch(command *cobra.Command, arguments []string) error {
	logger := logging.RootLogger.Sublogger("condalink")
	if !rootConfiguration.verbose {
		logger = nil
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	e := buildEngine(settings, logger)

	var keys []dist.Key
	if rootConfiguration.file != "" {
		keys, err = readDistFile(rootConfiguration.file)
	} else {
		keys, err = allExtracted(e.Cache)
	}
	if err != nil {
		return err
	}

	if rootConfiguration.verbose {
		statusLine := &cmd.StatusLinePrinter{}
		statusLine.Print(describeCacheStats(e.Cache))
		statusLine.BreakIfNonEmpty()
	}

	linkType := probeLinkType(e, settings.prefix, keys)

	for _, d := range keys {
		if rootConfiguration.unlink {
			if rootConfiguration.verbose {
				fmt.Println("unlinking", d)
			}
			if err := e.Unlink(settings.prefix, d, nil); err != nil {
				return errors.Wrapf(err, "unable to unlink %s", d)
			}
			continue
		}
		if rootConfiguration.verbose {
			fmt.Println("linking", d, "via", linkType)
		}
		if err := e.Link(settings.prefix, d, linkType, nil); err != nil {
			return errors.Wrapf(err, "unable to link %s", d)
		}
	}

	if !rootConfiguration.unlink && !rootConfiguration.noShellShims && len(keys) > 0 {
		if err := e.SymlinkActivationScripts(settings.prefix, settings.rootPrefix, ""); err != nil {
			logger.Warn(errors.Wrap(err, "unable to install activation shims"))
		}
	}

	printAndRemoveMessages(settings.prefix)

	return nil
}

// probeLinkType picks the link type for a batch, trying each requested
// distribution against each configured cache directory in order until one
// hard-links successfully. Falls back to LinkTypeCopy if none do.
func probeLinkType(e *engine.Engine, prefix string, keys []dist.Key) fs.LinkType {
	for _, d := range keys {
		for _, pkgsDir := range e.Cache.PkgsDirs() {
			if engine.TryHardLink(pkgsDir, d, prefix) {
				return fs.LinkTypeHard
			}
		}
	}
	return fs.LinkTypeCopy
}

func linkMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("link requires exactly one distribution key")
	}

	logger := logging.RootLogger.Sublogger("condalink")
	if !rootConfiguration.verbose {
		logger = nil
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	e := buildEngine(settings, logger)
	d := dist.Key(arguments[0])

	linkType := probeLinkType(e, settings.prefix, []dist.Key{d})
	if err := e.Link(settings.prefix, d, linkType, nil); err != nil {
		return errors.Wrapf(err, "unable to link %s", d)
	}

	if !rootConfiguration.noShellShims {
		if err := e.SymlinkActivationScripts(settings.prefix, settings.rootPrefix, ""); err != nil {
			logger.Warn(errors.Wrap(err, "unable to install activation shims"))
		}
	}

	printAndRemoveMessages(settings.prefix)

	return nil
}

var linkCommand = &cobra.Command{
	Use:   "link <distribution>",
	Short: "Link a single extracted distribution into the target prefix",
	Args:  cobra.ExactArgs(1),
	Run:   cmd.Mainify(linkMain),
}
