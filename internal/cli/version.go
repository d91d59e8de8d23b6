package cmd

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Banner(rootCmd.Name()))
	},
}
