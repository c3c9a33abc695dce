package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

// AuditService reads the audit trail, records read-path access events, and
// assembles chain-of-custody exports.
type AuditService struct {
	store  store.AuditStore
	logger *slog.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(st store.AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: st, logger: logger}
}

var accessSummaries = map[models.AccessAction]string{
	models.AccessView:      "Viewed record",
	models.AccessDownload:  "Downloaded attachment",
	models.AccessShareView: "Viewed via share link",
}

// LogAccess appends a read-path event to the record's history. Access
// logging is best-effort: a failed audit write is logged and swallowed so
// it never blocks the read itself.
func (s *AuditService) LogAccess(ctx context.Context, recordID string, action models.AccessAction, audit AuditContext) {
	summary, ok := accessSummaries[action]
	if !ok {
		summary = "Accessed record"
	}
	entry := models.HistoryEntry{
		RecordID:        recordID,
		ChangeType:      models.ChangeSystem,
		ChangeSummary:   summary,
		ActorUserID:     audit.ActorUserID,
		SystemGenerated: true,
		IPAddress:       audit.IPAddress,
		UserAgent:       audit.UserAgent,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.AppendHistory(ctx, &entry); err != nil {
		s.logger.Warn("access log write failed",
			"record_id", recordID, "action", string(action), "error", err)
	}
}

// History returns the record's full audit trail in causal order.
func (s *AuditService) History(ctx context.Context, recordID string) (api.HistoryResponse, error) {
	var resp api.HistoryResponse
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return resp, err
	}
	entries, err := s.store.ListHistory(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.HistoryResponse{RecordID: recordID, Entries: entries}, nil
}

// Custody assembles the chain-of-custody document for one record: every
// version, every history entry, and every attachment hash, active or not.
func (s *AuditService) Custody(ctx context.Context, recordID string) (api.CustodyDocument, error) {
	var doc api.CustodyDocument

	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return doc, storeFailure(err)
	}
	if rv == nil {
		return doc, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}

	versions, err := s.store.ListVersions(ctx, recordID)
	if err != nil {
		return doc, storeFailure(err)
	}
	entries, err := s.store.ListHistory(ctx, recordID)
	if err != nil {
		return doc, storeFailure(err)
	}
	attachments, err := s.store.ListAttachments(ctx, recordID, true)
	if err != nil {
		return doc, storeFailure(err)
	}
	exhibit, err := s.store.GetExhibitByRecord(ctx, recordID)
	if err != nil {
		return doc, storeFailure(err)
	}

	doc = api.CustodyDocument{
		GeneratedAt: time.Now().UTC(),
		Record: api.CustodyRecord{
			ID:             rv.Record.ID,
			OwnerUserID:    rv.Record.OwnerUserID,
			Status:         string(rv.Record.Status),
			CaseID:         rv.Record.CaseID,
			CurrentVersion: rv.Current.VersionNumber,
			CreatedAt:      rv.Record.CreatedAt,
		},
	}
	if exhibit != nil {
		doc.Exhibit = &api.CustodyExhibit{Code: exhibit.ExhibitCode, Label: exhibit.Label}
	}
	for _, v := range versions {
		doc.Versions = append(doc.Versions, api.CustodyVersion{
			ID:            v.ID,
			VersionNumber: v.VersionNumber,
			ContentText:   v.ContentText,
			EventDate:     v.EventDateText,
			EditedBy:      v.EditedByUserID,
			IsOriginal:    v.IsOriginal,
			CreatedAt:     v.CreatedAt,
		})
	}
	for _, e := range entries {
		doc.History = append(doc.History, api.CustodyEvent{
			ChangeType:      string(e.ChangeType),
			Summary:         e.ChangeSummary,
			VersionID:       e.VersionID,
			Actor:           e.ActorUserID,
			SystemGenerated: e.SystemGenerated,
			IPAddress:       e.IPAddress,
			At:              e.CreatedAt,
		})
	}
	for _, a := range attachments {
		doc.Attachments = append(doc.Attachments, api.CustodyAttachment{
			ID:         a.ID,
			Filename:   a.Filename,
			MediaType:  a.MediaType,
			SHA256:     a.FileHash,
			SizeBytes:  a.SizeBytes,
			Active:     a.Active,
			UploadedAt: a.UploadedAt,
		})
	}
	return doc, nil
}

func (s *AuditService) ensureRecord(ctx context.Context, recordID string) error {
	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return storeFailure(err)
	}
	if rv == nil {
		return notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	return nil
}
