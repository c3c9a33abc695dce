package api

import "github.com/Dvid0316/evidence-vault/internal/models"

// ShareCreateRequest creates a read-only share link for a record.
type ShareCreateRequest struct {
	ExpiresInHours *int `json:"expires_in_hours,omitempty"`
}

// ShareResponse wraps one share link.
type ShareResponse struct {
	Share models.ShareLink `json:"share"`
}

// ShareListResponse lists a record's share links, newest first.
type ShareListResponse struct {
	RecordID string             `json:"record_id"`
	Shares   []models.ShareLink `json:"shares"`
}

// SharedRecordResponse is the read-only view a share token resolves to.
type SharedRecordResponse struct {
	Record         models.Record        `json:"record"`
	CurrentVersion models.RecordVersion `json:"current_version"`
	Attachments    []models.Attachment  `json:"attachments,omitempty"`
}
