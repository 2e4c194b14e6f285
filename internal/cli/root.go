package cli

import (
	"github.com/kyson-dev/chain-helm/internal/logger"
	"github.com/spf13/cobra"
)

var GlobalDebug bool
var LogFile string

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain-helm",
		Short: "Chain residential nodes behind a relay group in Clash configs",
		Long: `chain-helm rewrites a Clash/mihomo configuration so that residential (home ISP)
nodes dial through an existing relay group, collects them into a dedicated
chain group and wires that group into proxy-groups, rule-providers and rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(logger.Config{Debug: GlobalDebug, FilePath: LogFile})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&GlobalDebug, "debug", "d", false, "Enable debug mode")
	cmd.PersistentFlags().StringVar(&LogFile, "log", "", "Also write logs to this file")

	cmd.AddCommand(
		newApplyCommand(),
		newExportCommand(),
		newCheckCommand(),
		newProfileCommand(),
		newVersionCommand(),
	)

	return cmd
}

// Execute 执行根命令
func Execute() error {
	return NewRootCommand().Execute()
}
