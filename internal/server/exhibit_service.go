package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

// ExhibitService allocates and removes exhibit designations.
type ExhibitService struct {
	store store.ExhibitStore
}

// NewExhibitService constructs an ExhibitService.
func NewExhibitService(st store.ExhibitStore) *ExhibitService {
	return &ExhibitService{store: st}
}

// Designate marks a record as the actor's next exhibit.
func (s *ExhibitService) Designate(ctx context.Context, req api.ExhibitDesignateRequest, audit AuditContext) (api.ExhibitResponse, error) {
	var resp api.ExhibitResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	if !validateRecordID(req.RecordID) {
		return resp, badRequestCode(fmt.Errorf("invalid record_id"), ErrCodeInvalidID)
	}
	label, err := normalizeLabel(req.Label)
	if err != nil {
		return resp, err
	}

	exhibitID, err := s.store.NewID(ctx, store.ExhibitIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}

	exhibit, err := s.store.DesignateExhibit(ctx, store.DesignateExhibitParams{
		ExhibitID:   exhibitID,
		RecordID:    req.RecordID,
		OwnerUserID: audit.ActorUserID,
		Label:       label,
		IPAddress:   audit.IPAddress,
		UserAgent:   audit.UserAgent,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		return resp, storeError(err)
	}
	return api.ExhibitResponse{Exhibit: *exhibit}, nil
}

// Remove deletes a designation. The exhibit code stays burned.
func (s *ExhibitService) Remove(ctx context.Context, exhibitID string, audit AuditContext) (api.ExhibitResponse, error) {
	var resp api.ExhibitResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}

	exhibit, err := s.store.RemoveExhibit(ctx, exhibitID, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return resp, storeError(err)
	}
	return api.ExhibitResponse{Exhibit: *exhibit}, nil
}

// ForRecord returns the record's designation, if any.
func (s *ExhibitService) ForRecord(ctx context.Context, recordID string) (api.ExhibitResponse, error) {
	var resp api.ExhibitResponse
	exhibit, err := s.store.GetExhibitByRecord(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if exhibit == nil {
		return resp, notFoundCode(fmt.Errorf("exhibit not found"), ErrCodeExhibitNotFound)
	}
	return api.ExhibitResponse{Exhibit: *exhibit}, nil
}

// List returns an owner's exhibits in allocation order.
func (s *ExhibitService) List(ctx context.Context, ownerUserID string) (api.ExhibitListResponse, error) {
	var resp api.ExhibitListResponse
	if !validateUserID(ownerUserID) {
		return resp, badRequestCode(fmt.Errorf("invalid owner id"), ErrCodeInvalidID)
	}
	exhibits, err := s.store.ListExhibits(ctx, ownerUserID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.ExhibitListResponse{Exhibits: exhibits}, nil
}
