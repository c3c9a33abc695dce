package main

import (
	"github.com/spf13/cobra"

	"github.com/Dvid0316/evidence-vault/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "evault",
		Short: "Evault is a tamper-evident evidence record vault for legal teams",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLoggerForCLI(logLevel, cfg.LogLevel)
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newAdminCmd(cfg, &jsonOutput),
		newExportCmd(cfg, &jsonOutput),
		newVerifyCmd(cfg, &jsonOutput),
	)

	return cmd
}
