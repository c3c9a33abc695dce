package api

import "github.com/Dvid0316/evidence-vault/internal/models"

// AttachmentResponse wraps one attachment's metadata. Raw bytes go through
// the download endpoint.
type AttachmentResponse struct {
	Attachment models.Attachment `json:"attachment"`
}

// AttachmentListResponse lists a record's attachments, newest first.
type AttachmentListResponse struct {
	RecordID    string              `json:"record_id"`
	Attachments []models.Attachment `json:"attachments"`
}

// VerifyResponse reports one integrity check.
type VerifyResponse struct {
	Result models.VerifyResult `json:"result"`
}

// VerifyAllResponse reports integrity checks for every active attachment of
// a record, one result per attachment regardless of individual failures.
// AllPassed is true only when every result matched.
type VerifyAllResponse struct {
	RecordID  string                `json:"record_id"`
	Results   []models.VerifyResult `json:"results"`
	AllPassed bool                  `json:"all_passed"`
}
