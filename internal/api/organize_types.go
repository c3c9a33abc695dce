package api

import "github.com/Dvid0316/evidence-vault/internal/models"

// TagCreateRequest creates a per-owner tag.
type TagCreateRequest struct {
	OwnerUserID string  `json:"owner_user_id"`
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
}

// TagResponse wraps one tag.
type TagResponse struct {
	Tag models.Tag `json:"tag"`
}

// TagListResponse lists an owner's tags by name.
type TagListResponse struct {
	Tags []models.Tag `json:"tags"`
}

// CaseCreateRequest creates a legal matter grouping.
type CaseCreateRequest struct {
	OwnerUserID string  `json:"owner_user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CaseNumber  *string `json:"case_number,omitempty"`
}

// CaseUpdateRequest applies a partial update; nil fields are left alone.
type CaseUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CaseNumber  *string `json:"case_number,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CaseResponse wraps one case.
type CaseResponse struct {
	Case models.Case `json:"case"`
}

// CaseListResponse lists an owner's cases by name.
type CaseListResponse struct {
	Cases []models.Case `json:"cases"`
}

// CaseAssignRequest moves a record into a case.
type CaseAssignRequest struct {
	CaseID string `json:"case_id"`
}
