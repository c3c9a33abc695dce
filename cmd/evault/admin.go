package main

import (
	"github.com/spf13/cobra"

	"github.com/Dvid0316/evidence-vault/internal/config"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func newAdminCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}
	cmd.AddCommand(newAdminUserCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminMigrateCmd(cfg, jsonOutput))
	return cmd
}

func newAdminMigrateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect schema migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				plan, err := store.MigrationPlan(st.DB())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(plan)
				}
				if err := writePlain("current version: %d\navailable version: %d\n", plan.CurrentVersion, plan.AvailableVersion); err != nil {
					return err
				}
				for _, m := range plan.Pending {
					if err := writePlain("pending: %d %s\n", m.Version, m.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
	return cmd
}
