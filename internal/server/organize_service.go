package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

// OrganizeService manages tags and cases and their record associations.
type OrganizeService struct {
	store store.OrganizeStore
}

// NewOrganizeService constructs an OrganizeService.
func NewOrganizeService(st store.OrganizeStore) *OrganizeService {
	return &OrganizeService{store: st}
}

// CreateTag creates a per-owner tag. Tag names are lowercased and unique
// per owner.
func (s *OrganizeService) CreateTag(ctx context.Context, req api.TagCreateRequest, audit AuditContext) (api.TagResponse, error) {
	var resp api.TagResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	name, err := normalizeName(req.Name, true)
	if err != nil {
		return resp, err
	}
	color, err := normalizeTagColor(req.Color)
	if err != nil {
		return resp, err
	}
	if color == "" {
		color = models.DefaultTagColor
	}

	id, err := s.store.NewID(ctx, store.TagIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}
	tag := models.Tag{
		ID:          id,
		OwnerUserID: audit.ActorUserID,
		Name:        name,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateTag(ctx, &tag); err != nil {
		if store.IsUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("tag name already exists"), ErrCodeNameExists)
		}
		return resp, storeFailure(err)
	}
	return api.TagResponse{Tag: tag}, nil
}

// ListTags returns the actor's tags with record counts.
func (s *OrganizeService) ListTags(ctx context.Context, ownerUserID string) (api.TagListResponse, error) {
	var resp api.TagListResponse
	if !validateUserID(ownerUserID) {
		return resp, badRequestCode(fmt.Errorf("invalid owner id"), ErrCodeInvalidID)
	}
	tags, err := s.store.ListTags(ctx, ownerUserID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.TagListResponse{Tags: tags}, nil
}

// DeleteTag removes a tag and its associations.
func (s *OrganizeService) DeleteTag(ctx context.Context, tagID string, audit AuditContext) error {
	if err := requireActor(audit); err != nil {
		return err
	}
	if err := s.store.DeleteTag(ctx, tagID, audit.ActorUserID); err != nil {
		return storeError(err)
	}
	return nil
}

// TagRecord applies a tag to a record. Already-tagged is a no-op.
func (s *OrganizeService) TagRecord(ctx context.Context, recordID, tagID string, audit AuditContext) error {
	if err := requireActor(audit); err != nil {
		return err
	}
	err := s.store.TagRecord(ctx, recordID, tagID, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return storeError(err)
	}
	return nil
}

// UntagRecord removes a tag from a record. Absent is a no-op.
func (s *OrganizeService) UntagRecord(ctx context.Context, recordID, tagID string, audit AuditContext) error {
	if err := requireActor(audit); err != nil {
		return err
	}
	err := s.store.UntagRecord(ctx, recordID, tagID, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return storeError(err)
	}
	return nil
}

// CreateCase creates a legal matter grouping.
func (s *OrganizeService) CreateCase(ctx context.Context, req api.CaseCreateRequest, audit AuditContext) (api.CaseResponse, error) {
	var resp api.CaseResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	name, err := normalizeName(req.Name, false)
	if err != nil {
		return resp, err
	}

	id, err := s.store.NewID(ctx, store.CaseIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}
	kase := models.Case{
		ID:          id,
		OwnerUserID: audit.ActorUserID,
		Name:        name,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Description != nil {
		kase.Description = *req.Description
	}
	if req.CaseNumber != nil {
		kase.CaseNumber = *req.CaseNumber
	}
	if err := s.store.CreateCase(ctx, &kase); err != nil {
		if store.IsUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("case name already exists"), ErrCodeNameExists)
		}
		return resp, storeFailure(err)
	}
	return api.CaseResponse{Case: kase}, nil
}

// GetCase returns one owned case.
func (s *OrganizeService) GetCase(ctx context.Context, caseID string, audit AuditContext) (api.CaseResponse, error) {
	var resp api.CaseResponse
	if err := requireActor(audit); err != nil {
		return resp, err
	}
	kase, err := s.store.GetCase(ctx, caseID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if kase == nil || kase.OwnerUserID != audit.ActorUserID {
		return resp, notFoundCode(fmt.Errorf("case not found"), ErrCodeCaseNotFound)
	}
	return api.CaseResponse{Case: *kase}, nil
}

// ListCases returns the actor's cases with record counts.
func (s *OrganizeService) ListCases(ctx context.Context, ownerUserID string) (api.CaseListResponse, error) {
	var resp api.CaseListResponse
	if !validateUserID(ownerUserID) {
		return resp, badRequestCode(fmt.Errorf("invalid owner id"), ErrCodeInvalidID)
	}
	cases, err := s.store.ListCases(ctx, ownerUserID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.CaseListResponse{Cases: cases}, nil
}

// UpdateCase applies a partial update to an owned case.
func (s *OrganizeService) UpdateCase(ctx context.Context, caseID string, req api.CaseUpdateRequest, audit AuditContext) (api.CaseResponse, error) {
	var resp api.CaseResponse
	if err := requireActor(audit); err != nil {
		return resp, err
	}

	upd := store.CaseUpdate{
		Description: req.Description,
		CaseNumber:  req.CaseNumber,
		IsActive:    req.IsActive,
	}
	if req.Name != nil {
		name, err := normalizeName(*req.Name, false)
		if err != nil {
			return resp, err
		}
		upd.Name = &name
	}

	if err := s.store.UpdateCase(ctx, caseID, audit.ActorUserID, upd); err != nil {
		if store.IsUniqueConstraint(err) {
			return resp, conflictCode(fmt.Errorf("case name already exists"), ErrCodeNameExists)
		}
		return resp, storeError(err)
	}
	return s.GetCase(ctx, caseID, audit)
}

// AssignCase moves a record into a case.
func (s *OrganizeService) AssignCase(ctx context.Context, recordID string, req api.CaseAssignRequest, audit AuditContext) error {
	if err := requireActor(audit); err != nil {
		return err
	}
	if !validateCaseID(req.CaseID) {
		return badRequestCode(fmt.Errorf("invalid case_id"), ErrCodeInvalidID)
	}
	err := s.store.AssignRecordToCase(ctx, recordID, req.CaseID, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return storeError(err)
	}
	return nil
}

// UnassignCase clears a record's case assignment.
func (s *OrganizeService) UnassignCase(ctx context.Context, recordID string, audit AuditContext) error {
	if err := requireActor(audit); err != nil {
		return err
	}
	err := s.store.RemoveRecordFromCase(ctx, recordID, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return storeError(err)
	}
	return nil
}
