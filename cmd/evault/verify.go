package main

import (
	"github.com/spf13/cobra"

	"github.com/Dvid0316/evidence-vault/internal/blobstore"
	"github.com/Dvid0316/evidence-vault/internal/config"
	"github.com/Dvid0316/evidence-vault/internal/server"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func newVerifyCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <record-id>",
		Short: "Verify the stored hashes of a record's attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				bs, err := blobstore.NewLocalStore(cfg.BlobRoot)
				if err != nil {
					return err
				}

				attachments := server.NewAttachmentService(st, bs, cfg.Attachments.MaxUploadBytes)
				resp, err := attachments.VerifyAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}
				if len(resp.Results) == 0 {
					return writePlain("no active attachments on %s\n", resp.RecordID)
				}
				for _, result := range resp.Results {
					status := "ok"
					if !result.Match {
						status = "MISMATCH"
					}
					if result.Error != "" {
						status = "ERROR " + result.Error
					}
					if err := writePlain("%s\t%s\n", result.AttachmentID, status); err != nil {
						return err
					}
				}
				if resp.AllPassed {
					return writePlain("all attachments verified\n")
				}
				return writePlain("VERIFICATION FAILED for one or more attachments\n")
			})
		},
	}
}
