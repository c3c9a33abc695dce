package models

import "time"

const DefaultTagColor = "#6c757d"

// Tag is a per-owner label applied to records. Names are unique per owner
// and stored lowercased.
type Tag struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	RecordCount int       `json:"record_count"`
}

// Case groups records under one legal matter. Names are unique per owner.
type Case struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CaseNumber  string    `json:"case_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	RecordCount int       `json:"record_count"`
}
