package api

import "github.com/Dvid0316/evidence-vault/internal/models"

// RecordCreateRequest creates a record with its initial version.
type RecordCreateRequest struct {
	OwnerUserID string  `json:"owner_user_id"`
	ContentText string  `json:"content_text"`
	EventDate   *string `json:"event_date,omitempty"`
}

// RecordEditRequest submits new content for an existing record. ChangeType
// defaults to MODIFIED; SYSTEM marks the resulting history entry as
// system-generated.
type RecordEditRequest struct {
	ContentText string  `json:"content_text"`
	EventDate   *string `json:"event_date,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	ChangeType  string  `json:"change_type,omitempty"`
}

// RecordStatusRequest transitions the record lifecycle state.
type RecordStatusRequest struct {
	Status string `json:"status"`
}

// RecordResponse is a record together with its current version and the
// organizational state a caller usually wants alongside it.
type RecordResponse struct {
	Record         models.Record        `json:"record"`
	CurrentVersion models.RecordVersion `json:"current_version"`
	Tags           []models.Tag         `json:"tags,omitempty"`
	Exhibit        *models.Exhibit      `json:"exhibit,omitempty"`
}

// EditResponse reports the outcome of a content edit. Created is false when
// the submitted content matched the current version and nothing changed.
type EditResponse struct {
	Created bool                 `json:"created"`
	Version models.RecordVersion `json:"version"`
}

// VersionListResponse is the full version chain, newest first.
type VersionListResponse struct {
	RecordID string                 `json:"record_id"`
	Versions []models.RecordVersion `json:"versions"`
}

// HistoryResponse is the record's audit trail in causal order.
type HistoryResponse struct {
	RecordID string                `json:"record_id"`
	Entries  []models.HistoryEntry `json:"entries"`
}
