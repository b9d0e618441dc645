package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags, mirroring the teacher's
// own version-stamping convention.
var Version = "dev"

func initVersion(root *cobra.Command) {
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the abihost version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(Version)
			return nil
		},
	}
	root.AddCommand(versionCommand)
}
