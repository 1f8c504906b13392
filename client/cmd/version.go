package cmd

import (
	"github.com/spf13/cobra"

	"github.com/astrbotdevs/astrctl/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "prints the AstrBot version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.AstrBotVersion())
		},
	}
)
