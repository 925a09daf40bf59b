package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var clean bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of plycrop",
		Long: `Print the version number of plycrop:
  plycrop version
  plycrop version --clean
  `,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if clean {
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", Version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Version: %v\n", Version)
			}
		},
	}
	versionCmd.Flags().BoolVarP(&clean, "clean", "", false, "Just write version")
	return versionCmd
}
