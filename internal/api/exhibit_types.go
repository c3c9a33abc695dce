package api

import "github.com/Dvid0316/evidence-vault/internal/models"

// ExhibitDesignateRequest designates a record as an exhibit.
type ExhibitDesignateRequest struct {
	RecordID string  `json:"record_id"`
	Label    *string `json:"label,omitempty"`
}

// ExhibitResponse wraps one designation.
type ExhibitResponse struct {
	Exhibit models.Exhibit `json:"exhibit"`
}

// ExhibitListResponse lists an owner's exhibits in allocation order.
type ExhibitListResponse struct {
	Exhibits []models.Exhibit `json:"exhibits"`
}
