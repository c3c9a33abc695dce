package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

// RecordService owns the version chain: creation, edits, restores, and
// lifecycle transitions. Every mutation carries the audit context through
// to the store so the history entry lands in the same transaction.
type RecordService struct {
	store store.RecordStore
}

// NewRecordService constructs a RecordService.
func NewRecordService(st store.RecordStore) *RecordService {
	return &RecordService{store: st}
}

// Create creates a record with its immutable version 1.
func (s *RecordService) Create(ctx context.Context, req api.RecordCreateRequest, audit AuditContext) (api.RecordResponse, error) {
	var resp api.RecordResponse

	content, err := normalizeContent(req.ContentText)
	if err != nil {
		return resp, err
	}
	eventDate, err := normalizeEventDate(req.EventDate)
	if err != nil {
		return resp, err
	}

	owner := strings.TrimSpace(req.OwnerUserID)
	if owner == "" {
		owner = audit.ActorUserID
	}
	if owner == "" {
		return resp, badRequestCode(fmt.Errorf("owner_user_id is required"), ErrCodeMissingRequired)
	}
	if !validateUserID(owner) {
		return resp, badRequestCode(fmt.Errorf("invalid owner_user_id"), ErrCodeInvalidID)
	}

	recordID, err := s.store.NewID(ctx, store.RecordIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}
	versionID, err := s.store.NewID(ctx, store.VersionIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}

	rv, err := s.store.CreateRecord(ctx, store.CreateRecordParams{
		RecordID:      recordID,
		VersionID:     versionID,
		OwnerUserID:   owner,
		ContentText:   content,
		EventDateText: eventDate,
		IPAddress:     audit.IPAddress,
		UserAgent:     audit.UserAgent,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		return resp, storeError(err)
	}
	return s.respond(ctx, rv)
}

// Get returns one record with its current version, tags, and designation.
func (s *RecordService) Get(ctx context.Context, id string) (api.RecordResponse, error) {
	var resp api.RecordResponse
	rv, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return resp, storeFailure(err)
	}
	if rv == nil {
		return resp, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	return s.respond(ctx, rv)
}

// List returns records matching the filter, current versions attached.
func (s *RecordService) List(ctx context.Context, filter store.RecordFilter) ([]api.RecordResponse, error) {
	rows, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	out := make([]api.RecordResponse, 0, len(rows))
	for _, rv := range rows {
		out = append(out, api.RecordResponse{Record: rv.Record, CurrentVersion: rv.Current})
	}
	return out, nil
}

// Edit submits new content. Identical content is reported back with
// Created=false and leaves the chain untouched.
func (s *RecordService) Edit(ctx context.Context, recordID string, req api.RecordEditRequest, audit AuditContext) (api.EditResponse, error) {
	var resp api.EditResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	content, err := normalizeContent(req.ContentText)
	if err != nil {
		return resp, err
	}
	eventDate, err := normalizeEventDate(req.EventDate)
	if err != nil {
		return resp, err
	}
	summary := ""
	if req.Summary != nil {
		summary = strings.TrimSpace(*req.Summary)
	}

	changeType := models.ChangeModified
	if strings.TrimSpace(req.ChangeType) != "" {
		changeType, err = models.ParseChangeType(req.ChangeType)
		if err != nil {
			return resp, badRequest(err)
		}
		if changeType == models.ChangeAdded {
			return resp, badRequest(fmt.Errorf("change type must be MODIFIED or SYSTEM"))
		}
	}

	versionID, err := s.store.NewID(ctx, store.VersionIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}

	result, err := s.store.AddVersion(ctx, recordID, store.AddVersionParams{
		VersionID:     versionID,
		ContentText:   content,
		EventDateText: eventDate,
		ActorUserID:   audit.ActorUserID,
		ChangeType:    changeType,
		ChangeSummary: summary,
		IPAddress:     audit.IPAddress,
		UserAgent:     audit.UserAgent,
		Now:           time.Now().UTC(),
	})
	if err != nil {
		return resp, storeError(err)
	}
	return api.EditResponse{Created: result.Created, Version: result.Version}, nil
}

// Restore copies an older version's content into a new version at the top
// of the chain.
func (s *RecordService) Restore(ctx context.Context, recordID, versionID string, audit AuditContext) (api.EditResponse, error) {
	var resp api.EditResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}

	newVersionID, err := s.store.NewID(ctx, store.VersionIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}

	version, err := s.store.RestoreVersion(ctx, recordID, store.RestoreVersionParams{
		SourceVersionID: versionID,
		NewVersionID:    newVersionID,
		ActorUserID:     audit.ActorUserID,
		IPAddress:       audit.IPAddress,
		UserAgent:       audit.UserAgent,
		Now:             time.Now().UTC(),
	})
	if err != nil {
		return resp, storeError(err)
	}
	return api.EditResponse{Created: true, Version: *version}, nil
}

// SetStatus transitions the record lifecycle state, idempotently.
func (s *RecordService) SetStatus(ctx context.Context, recordID string, req api.RecordStatusRequest, audit AuditContext) (api.RecordResponse, error) {
	var resp api.RecordResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	status, err := models.ParseRecordStatus(req.Status)
	if err != nil {
		return resp, badRequestCode(err, ErrCodeInvalidStatus)
	}

	_, _, err = s.store.SetRecordStatus(ctx, recordID, audit.ActorUserID, status,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return resp, storeError(err)
	}
	return s.Get(ctx, recordID)
}

// Versions returns the full chain, newest first.
func (s *RecordService) Versions(ctx context.Context, recordID string) (api.VersionListResponse, error) {
	var resp api.VersionListResponse
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return resp, err
	}
	versions, err := s.store.ListVersions(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.VersionListResponse{RecordID: recordID, Versions: versions}, nil
}

// Version returns one version that must belong to the record.
func (s *RecordService) Version(ctx context.Context, recordID, versionID string) (models.RecordVersion, error) {
	var zero models.RecordVersion
	version, err := s.store.GetVersion(ctx, versionID)
	if err != nil {
		return zero, storeFailure(err)
	}
	if version == nil || version.RecordID != recordID {
		return zero, notFoundCode(fmt.Errorf("version not found"), ErrCodeVersionNotFound)
	}
	return *version, nil
}

func (s *RecordService) ensureRecord(ctx context.Context, recordID string) error {
	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return storeFailure(err)
	}
	if rv == nil {
		return notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	return nil
}

func (s *RecordService) respond(ctx context.Context, rv *store.RecordWithVersion) (api.RecordResponse, error) {
	resp := api.RecordResponse{Record: rv.Record, CurrentVersion: rv.Current}

	tags, err := s.store.ListRecordTags(ctx, rv.Record.ID)
	if err != nil {
		return resp, storeFailure(err)
	}
	resp.Tags = tags

	exhibit, err := s.store.GetExhibitByRecord(ctx, rv.Record.ID)
	if err != nil {
		return resp, storeFailure(err)
	}
	resp.Exhibit = exhibit

	return resp, nil
}
