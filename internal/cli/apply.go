package cli

import (
	"fmt"

	"github.com/kyson-dev/chain-helm/internal/chain"
	"github.com/kyson-dev/chain-helm/internal/singbox"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatClash   = "clash"
	formatSingBox = "singbox"
)

func newApplyCommand() *cobra.Command {
	var (
		flags  profileFlags
		output string
		format string
		report bool
	)
	cmd := &cobra.Command{
		Use:   "apply [file|url|-]",
		Short: "Rewrite a config with the residential chain group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], &flags, output, format, report)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatClash, "Output format: clash, singbox")
	cmd.Flags().BoolVar(&report, "report", false, "Print a rewrite summary to stderr")
	return cmd
}

func newExportCommand() *cobra.Command {
	var (
		flags  profileFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [file|url|-]",
		Short: "Rewrite a config and export it as sing-box outbounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], &flags, output, formatSingBox, false)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runApply(cmd *cobra.Command, input string, flags *profileFlags, output, format string, report bool) error {
	if format != formatClash && format != formatSingBox {
		return fmt.Errorf("unsupported format: %s", format)
	}

	profile, err := flags.compile()
	if err != nil {
		return err
	}

	doc, err := loadDocument(cmd, input)
	if err != nil {
		return err
	}

	doc, summary, err := chain.NewTransformer(profile).Transform(doc)
	if err != nil {
		return err
	}

	if report {
		data, err := yaml.Marshal(summary)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.ErrOrStderr(), string(data))
	}

	var data []byte
	switch format {
	case formatSingBox:
		opts, skipped, err := singbox.Convert(doc)
		if err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: %s\n", s.Name, s.Reason)
		}
		if data, err = singbox.Marshal(opts); err != nil {
			return err
		}
	default:
		if output != "" {
			if err := doc.Save(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s\n", output)
			return nil
		}
		if data, err = doc.Marshal(); err != nil {
			return err
		}
	}

	return writeOutput(cmd, output, data)
}
