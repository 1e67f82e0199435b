// apextract copies the photos of an Aperture library into a folder tree
// with one folder per album.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwcarlsen/apextract/conf"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

// newRootCmd builds the command. Tests build a fresh one per case.
func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "apextract --aperture <library> --output-folder <folder>",
		Short: "Extract photos from an Aperture library into album folders",
		Long: `apextract reads the catalog of an Aperture library, works out which album
every photo belongs to and copies each original into <output-folder>/<album>/.
Photos that are in no album go to the AAA_No_album folder.

Options may also be given as APEXTRACT_<OPTION> environment variables
(e.g. APEXTRACT_OUTPUT_FOLDER) or in a YAML file passed with --config.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := conf.New(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			c, err := conf.Load(v)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), c, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	conf.Flags(cmd.Flags())
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	return cmd
}
