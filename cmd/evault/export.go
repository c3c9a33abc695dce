package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Dvid0316/evidence-vault/internal/config"
	"github.com/Dvid0316/evidence-vault/internal/server"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func newExportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <record-id>",
		Short: "Export a record's chain-of-custody document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if *jsonOutput {
				format = "json"
			}
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (yaml or json)", format)
			}

			return withStore(cfg, func(st *store.Store) error {
				audit := server.NewAuditService(st, nil)
				doc, err := audit.Custody(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				var payload []byte
				switch format {
				case "json":
					payload, err = json.MarshalIndent(doc, "", "  ")
					if err == nil {
						payload = append(payload, '\n')
					}
				default:
					payload, err = yaml.Marshal(doc)
				}
				if err != nil {
					return err
				}

				if outPath != "" {
					return os.WriteFile(outPath, payload, 0o644)
				}
				_, err = os.Stdout.Write(payload)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}
