package models

import (
	"fmt"
	"strings"
	"time"
)

// ChangeType classifies one history entry.
type ChangeType string

const (
	ChangeAdded    ChangeType = "ADDED"
	ChangeModified ChangeType = "MODIFIED"
	ChangeSystem   ChangeType = "SYSTEM"
)

var validChangeTypes = map[ChangeType]struct{}{
	ChangeAdded:    {},
	ChangeModified: {},
	ChangeSystem:   {},
}

// AccessAction is a read-path event recorded best-effort in the audit trail.
type AccessAction string

const (
	AccessView      AccessAction = "VIEW"
	AccessDownload  AccessAction = "DOWNLOAD"
	AccessShareView AccessAction = "SHARE_VIEW"
)

var validAccessActions = map[AccessAction]struct{}{
	AccessView:      {},
	AccessDownload:  {},
	AccessShareView: {},
}

// HistoryEntry is one append-only audit row. Entries are never updated or
// deleted; ordering by (created_at, id) reconstructs the record's full
// causal history.
type HistoryEntry struct {
	ID              int64      `json:"id"`
	RecordID        string     `json:"record_id"`
	VersionID       string     `json:"version_id,omitempty"`
	ChangeType      ChangeType `json:"change_type"`
	ChangeSummary   string     `json:"change_summary"`
	ActorUserID     string     `json:"actor_user_id,omitempty"`
	SystemGenerated bool       `json:"system_generated"`
	IPAddress       string     `json:"ip_address,omitempty"`
	UserAgent       string     `json:"user_agent,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ParseChangeType(raw string) (ChangeType, error) {
	value := ChangeType(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("change type is required")
	}
	if _, ok := validChangeTypes[value]; !ok {
		return "", fmt.Errorf("invalid change type: %s", value)
	}
	return value, nil
}

func ParseAccessAction(raw string) (AccessAction, error) {
	value := AccessAction(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("action is required")
	}
	if _, ok := validAccessActions[value]; !ok {
		return "", fmt.Errorf("invalid action: %s", value)
	}
	return value, nil
}
