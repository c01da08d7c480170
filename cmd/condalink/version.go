package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomhendersonfl/conda/cmd"
	"github.com/tomhendersonfl/conda/pkg/condalink"
)

func versionMain(command *cobra.Command, arguments []string) error {
	fmt.Println(condalink.Version)
	return nil
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run:   cmd.Mainify(versionMain),
}
