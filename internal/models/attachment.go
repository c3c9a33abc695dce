package models

import "time"

// Attachment references one stored blob belonging to a record. FileHash is
// the SHA-256 digest of the bytes at upload time; it is never recomputed
// into storage and serves as the permanent tamper-check reference. Deleting
// an attachment only clears Active — bytes and hash are retained for
// forensic verification.
type Attachment struct {
	ID         string    `json:"id"`
	RecordID   string    `json:"record_id"`
	MediaType  string    `json:"media_type"`
	Filename   string    `json:"filename,omitempty"`
	StorageKey string    `json:"storage_key"`
	FileHash   string    `json:"file_hash"`
	SizeBytes  int64     `json:"size_bytes"`
	Active     bool      `json:"active"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// VerifyResult reports one integrity check. A mismatch is expected,
// actionable data rather than an error state.
type VerifyResult struct {
	AttachmentID string `json:"attachment_id"`
	StoredHash   string `json:"stored_hash"`
	ComputedHash string `json:"computed_hash,omitempty"`
	Match        bool   `json:"match"`
	Error        string `json:"error,omitempty"`
}
