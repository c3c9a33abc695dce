package models

import (
	"fmt"
	"strings"
	"time"
)

// RecordStatus defines allowed lifecycle states for evidence records.
type RecordStatus string

const (
	StatusActive   RecordStatus = "ACTIVE"
	StatusArchived RecordStatus = "ARCHIVED"
)

var validRecordStatuses = map[RecordStatus]struct{}{
	StatusActive:   {},
	StatusArchived: {},
}

// Record is the stable identity for one piece of evidence. Its content lives
// in an append-only chain of RecordVersions; CurrentVersionID points at the
// authoritative snapshot.
type Record struct {
	ID               string       `json:"id"`
	OwnerUserID      string       `json:"owner_user_id"`
	Status           RecordStatus `json:"status"`
	CaseID           string       `json:"case_id,omitempty"`
	CurrentVersionID string       `json:"current_version_id"`
	CreatedAt        time.Time    `json:"created_at"`
}

// RecordVersion is one immutable content snapshot. Version numbers for a
// record form a contiguous sequence starting at 1.
type RecordVersion struct {
	ID             string    `json:"id"`
	RecordID       string    `json:"record_id"`
	VersionNumber  int       `json:"version_number"`
	ContentText    string    `json:"content_text"`
	EventDateText  string    `json:"event_date_text,omitempty"`
	EditedByUserID string    `json:"edited_by_user_id,omitempty"`
	IsOriginal     bool      `json:"is_original"`
	CreatedAt      time.Time `json:"created_at"`
}

func IsValidRecordStatus(status RecordStatus) bool {
	_, ok := validRecordStatuses[status]
	return ok
}

func ParseRecordStatus(raw string) (RecordStatus, error) {
	value := RecordStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidRecordStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}
