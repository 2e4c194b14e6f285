package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProfileCommand() *cobra.Command {
	var flags profileFlags
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the effective rewrite profile as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := flags.compile()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(profile.Options())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}
