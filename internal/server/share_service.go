package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

const maxShareExpiryHours = 24 * 365

// ShareService manages read-only share links. Tokens are unguessable
// UUIDs; unusable tokens resolve exactly like unknown ones so a caller
// cannot probe for revoked or expired links.
type ShareService struct {
	store store.ShareStore
}

// NewShareService constructs a ShareService.
func NewShareService(st store.ShareStore) *ShareService {
	return &ShareService{store: st}
}

// Create issues a share link for an owned record.
func (s *ShareService) Create(ctx context.Context, recordID string, req api.ShareCreateRequest, audit AuditContext) (api.ShareResponse, error) {
	var resp api.ShareResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}

	rv, err := s.ownedRecord(ctx, recordID, audit.ActorUserID)
	if err != nil {
		return resp, err
	}

	now := time.Now().UTC()
	var expiresAt *time.Time
	if req.ExpiresInHours != nil {
		hours := *req.ExpiresInHours
		if hours <= 0 || hours > maxShareExpiryHours {
			return resp, badRequestCode(fmt.Errorf("expires_in_hours must be between 1 and %d", maxShareExpiryHours), ErrCodeInvalidExpiry)
		}
		t := now.Add(time.Duration(hours) * time.Hour)
		expiresAt = &t
	}

	id, err := s.store.NewID(ctx, store.ShareIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}
	link := models.ShareLink{
		ID:        id,
		RecordID:  rv.Record.ID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.store.CreateShareLink(ctx, &link); err != nil {
		return resp, storeFailure(err)
	}
	return api.ShareResponse{Share: link}, nil
}

// List returns all of an owned record's share links, revoked included.
func (s *ShareService) List(ctx context.Context, recordID string, audit AuditContext) (api.ShareListResponse, error) {
	var resp api.ShareListResponse
	if err := requireActor(audit); err != nil {
		return resp, err
	}
	if _, err := s.ownedRecord(ctx, recordID, audit.ActorUserID); err != nil {
		return resp, err
	}
	shares, err := s.store.ListShareLinks(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.ShareListResponse{RecordID: recordID, Shares: shares}, nil
}

// Revoke stamps a link revoked. Revoking twice is a conflict.
func (s *ShareService) Revoke(ctx context.Context, shareID string, audit AuditContext) (api.ShareResponse, error) {
	var resp api.ShareResponse
	if err := requireActor(audit); err != nil {
		return resp, err
	}

	link, err := s.store.GetShareLink(ctx, shareID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if link == nil {
		return resp, notFoundCode(fmt.Errorf("share link not found"), ErrCodeShareNotFound)
	}
	if _, err := s.ownedRecord(ctx, link.RecordID, audit.ActorUserID); err != nil {
		return resp, err
	}

	revoked, err := s.store.RevokeShareLink(ctx, shareID, time.Now().UTC())
	if err != nil {
		return resp, storeError(err)
	}
	return api.ShareResponse{Share: *revoked}, nil
}

// Resolve maps a token to its read-only record view. Unknown, expired, and
// revoked tokens are indistinguishable to the caller.
func (s *ShareService) Resolve(ctx context.Context, token string) (api.SharedRecordResponse, string, error) {
	var resp api.SharedRecordResponse

	link, err := s.store.GetShareLinkByToken(ctx, token)
	if err != nil {
		return resp, "", storeFailure(err)
	}
	if link == nil || !link.Usable(time.Now().UTC()) {
		return resp, "", notFoundCode(fmt.Errorf("share link not found"), ErrCodeShareNotFound)
	}

	rv, err := s.store.GetRecord(ctx, link.RecordID)
	if err != nil {
		return resp, "", storeFailure(err)
	}
	if rv == nil {
		return resp, "", notFoundCode(fmt.Errorf("share link not found"), ErrCodeShareNotFound)
	}

	attachments, err := s.store.ListAttachments(ctx, link.RecordID, false)
	if err != nil {
		return resp, "", storeFailure(err)
	}

	resp = api.SharedRecordResponse{
		Record:         rv.Record,
		CurrentVersion: rv.Current,
		Attachments:    attachments,
	}
	return resp, link.RecordID, nil
}

func (s *ShareService) ownedRecord(ctx context.Context, recordID, actorUserID string) (*store.RecordWithVersion, error) {
	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if rv == nil {
		return nil, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	if rv.Record.OwnerUserID != actorUserID {
		return nil, forbidden(fmt.Errorf("record is owned by another user"))
	}
	return rv, nil
}
