package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/smolbox"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of smolbox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "smolbox version %s\n", strings.TrimSpace(smolbox.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
