package models

import "time"

// ShareLink grants read-only access to one record via an unguessable token.
// Revocation is a soft state so the link row remains as audit evidence.
type ShareLink struct {
	ID        string     `json:"id"`
	RecordID  string     `json:"record_id"`
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Usable reports whether the link can still resolve at the given time.
func (l *ShareLink) Usable(now time.Time) bool {
	if l == nil || l.RevokedAt != nil {
		return false
	}
	if l.ExpiresAt != nil && l.ExpiresAt.Before(now) {
		return false
	}
	return true
}
