package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/kin/display"
	"github.com/teranos/kin/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show kin version information",
		Long:  `Display version, build time, commit hash, and platform information for the kin binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			return display.Output(cmd, info, func(w io.Writer) error {
				fmt.Fprintln(w, info.String())
				fmt.Fprintf(w, "Platform: %s\n", info.Platform)
				fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
				return nil
			})
		},
	}
}
