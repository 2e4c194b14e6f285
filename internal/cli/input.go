package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/kyson-dev/chain-helm/internal/chain"
	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/source"
	"github.com/spf13/cobra"
)

// profileFlags 各命令共用的改写配置参数
type profileFlags struct {
	path     string
	infra    string
	ordering string
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "profile", "p", "", "YAML profile overriding the built-in keywords")
	cmd.Flags().StringVar(&f.infra, "infra", "", "Infrastructure exclusion: keyword-list, relay-name-only")
	cmd.Flags().StringVar(&f.ordering, "ordering", "", "Group ordering: anchor-only, normalize-manual-auto")
}

func (f *profileFlags) options() (chain.Options, error) {
	opts := chain.DefaultOptions()
	if f.path != "" {
		loaded, err := chain.LoadOptions(f.path)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}
	if f.infra != "" {
		opts.InfraExclusion = chain.InfraExclusion(f.infra)
	}
	if f.ordering != "" {
		opts.GroupOrdering = chain.GroupOrdering(f.ordering)
	}
	return opts, nil
}

func (f *profileFlags) compile() (*chain.Profile, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	return opts.Compile()
}

// loadDocument 读取输入，"-" 表示标准输入
func loadDocument(cmd *cobra.Command, location string) (*document.Document, error) {
	if location == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return document.Parse(content)
	}
	return source.Load(cmd.Context(), location)
}

// writeOutput 写入文件，path 为空时写到标准输出
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s\n", path)
	return nil
}
