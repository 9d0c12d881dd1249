package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/textilize/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long: `Print the configuration after merging the built-in defaults, the user
and project files, --config, TEXTILIZE_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := fmt.Fprint(out, config.DefaultContent())
				return err
			}
			data, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
