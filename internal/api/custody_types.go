package api

import "time"

// CustodyDocument is the chain-of-custody export for one record: the full
// version chain, the complete audit trail, and attachment hashes, in a
// shape stable enough to hand to opposing counsel.
type CustodyDocument struct {
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Record      CustodyRecord       `json:"record" yaml:"record"`
	Exhibit     *CustodyExhibit     `json:"exhibit,omitempty" yaml:"exhibit,omitempty"`
	Versions    []CustodyVersion    `json:"versions" yaml:"versions"`
	History     []CustodyEvent      `json:"history" yaml:"history"`
	Attachments []CustodyAttachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

type CustodyRecord struct {
	ID             string    `json:"id" yaml:"id"`
	OwnerUserID    string    `json:"owner_user_id" yaml:"owner_user_id"`
	Status         string    `json:"status" yaml:"status"`
	CaseID         string    `json:"case_id,omitempty" yaml:"case_id,omitempty"`
	CurrentVersion int       `json:"current_version" yaml:"current_version"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

type CustodyExhibit struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

type CustodyVersion struct {
	ID            string    `json:"id" yaml:"id"`
	VersionNumber int       `json:"version_number" yaml:"version_number"`
	ContentText   string    `json:"content_text" yaml:"content_text"`
	EventDate     string    `json:"event_date,omitempty" yaml:"event_date,omitempty"`
	EditedBy      string    `json:"edited_by" yaml:"edited_by"`
	IsOriginal    bool      `json:"is_original" yaml:"is_original"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

type CustodyEvent struct {
	ChangeType      string    `json:"change_type" yaml:"change_type"`
	Summary         string    `json:"summary" yaml:"summary"`
	VersionID       string    `json:"version_id,omitempty" yaml:"version_id,omitempty"`
	Actor           string    `json:"actor,omitempty" yaml:"actor,omitempty"`
	SystemGenerated bool      `json:"system_generated" yaml:"system_generated"`
	IPAddress       string    `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	At              time.Time `json:"at" yaml:"at"`
}

type CustodyAttachment struct {
	ID         string    `json:"id" yaml:"id"`
	Filename   string    `json:"filename,omitempty" yaml:"filename,omitempty"`
	MediaType  string    `json:"media_type" yaml:"media_type"`
	SHA256     string    `json:"sha256" yaml:"sha256"`
	SizeBytes  int64     `json:"size_bytes" yaml:"size_bytes"`
	Active     bool      `json:"active" yaml:"active"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}
