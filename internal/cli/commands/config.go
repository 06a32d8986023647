package commands

import (
	"fmt"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
HAIKU_* environment variables and command line flags.

The output is valid haiku.yaml and can be used as a starting point for a
project config file.`,
		Example: `  # Show effective settings
  haiku config

  # Start a project config from the current settings
  haiku config -o yaml > haiku.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd)
		},
	}

	return cmd
}

func runConfig(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if r.Structured() {
		return r.Data(cmdCtx.Cfg)
	}

	data, err := yaml.Marshal(cmdCtx.Cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	source := config.GetConfigFileUsed()
	if source == "" {
		source = "(none)"
	}
	r.Header("Configuration")
	_, _ = fmt.Fprintf(r.Out(), "config file: %s\n", source)
	r.Code("yaml", string(data))
	return nil
}
