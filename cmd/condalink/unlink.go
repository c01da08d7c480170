package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomhendersonfl/conda/cmd"
	"github.com/tomhendersonfl/conda/pkg/dist"
	"github.com/tomhendersonfl/conda/pkg/logging"
)

func unlinkMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("unlink requires exactly one distribution key")
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

	if err := e.Unlink(settings.prefix, d, nil); err != nil {
		return errors.Wrapf(err, "unable to unlink %s", d)
	}

	printAndRemoveMessages(settings.prefix)

	return nil
}

var unlinkCommand = &cobra.Command{
	Use:   "unlink <distribution>",
	Short: "Unlink a single distribution from the target prefix",
	Args:  cobra.ExactArgs(1),
	Run:   cmd.Mainify(unlinkMain),
}
