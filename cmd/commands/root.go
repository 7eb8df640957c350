package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "keyset",
		Short:         "Keyset pagination service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search ./config.yaml, $HOME/.keyset, /etc/keyset)")

	rootCmd.AddCommand(
		NewServeCommand(&configPath),
		NewSeedCommand(&configPath),
		NewVersionCommand(),
	)

	return rootCmd
}
