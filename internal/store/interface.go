package store

import (
	"context"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

// RecordStore is the persistence surface of the version chain.
type RecordStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	CreateRecord(ctx context.Context, p CreateRecordParams) (*RecordWithVersion, error)
	AddVersion(ctx context.Context, recordID string, p AddVersionParams) (*AddVersionResult, error)
	RestoreVersion(ctx context.Context, recordID string, p RestoreVersionParams) (*models.RecordVersion, error)
	SetRecordStatus(ctx context.Context, recordID, actorUserID string, status models.RecordStatus, ip, userAgent string, now time.Time) (*models.Record, bool, error)
	GetRecord(ctx context.Context, id string) (*RecordWithVersion, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordWithVersion, error)
	ListVersions(ctx context.Context, recordID string) ([]models.RecordVersion, error)
	GetVersion(ctx context.Context, id string) (*models.RecordVersion, error)
	ListRecordTags(ctx context.Context, recordID string) ([]models.Tag, error)
	GetExhibitByRecord(ctx context.Context, recordID string) (*models.Exhibit, error)
}

// AuditStore reads and appends the audit trail and assembles custody
// exports.
type AuditStore interface {
	AppendHistory(ctx context.Context, e *models.HistoryEntry) error
	ListHistory(ctx context.Context, recordID string) ([]models.HistoryEntry, error)
	GetRecord(ctx context.Context, id string) (*RecordWithVersion, error)
	ListVersions(ctx context.Context, recordID string) ([]models.RecordVersion, error)
	ListAttachments(ctx context.Context, recordID string, includeInactive bool) ([]models.Attachment, error)
	GetExhibitByRecord(ctx context.Context, recordID string) (*models.Exhibit, error)
}

// ExhibitStore is the persistence surface of exhibit designation.
type ExhibitStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	DesignateExhibit(ctx context.Context, p DesignateExhibitParams) (*models.Exhibit, error)
	RemoveExhibit(ctx context.Context, exhibitID, actorUserID, ip, userAgent string, now time.Time) (*models.Exhibit, error)
	GetExhibitByRecord(ctx context.Context, recordID string) (*models.Exhibit, error)
	ListExhibits(ctx context.Context, ownerUserID string) ([]models.Exhibit, error)
}

// AttachmentStore is the persistence surface of attachment metadata.
type AttachmentStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	CreateAttachment(ctx context.Context, a *models.Attachment, actorUserID, ip, userAgent string) error
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	ListAttachments(ctx context.Context, recordID string, includeInactive bool) ([]models.Attachment, error)
	SoftDeleteAttachment(ctx context.Context, id, actorUserID, ip, userAgent string, now time.Time) (*models.Attachment, error)
	GetRecord(ctx context.Context, id string) (*RecordWithVersion, error)
}

// OrganizeStore is the persistence surface of tags and cases.
type OrganizeStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	ListTags(ctx context.Context, ownerUserID string) ([]models.Tag, error)
	ListRecordTags(ctx context.Context, recordID string) ([]models.Tag, error)
	TagRecord(ctx context.Context, recordID, tagID, actorUserID, ip, userAgent string, now time.Time) error
	UntagRecord(ctx context.Context, recordID, tagID, actorUserID, ip, userAgent string, now time.Time) error
	DeleteTag(ctx context.Context, tagID, ownerUserID string) error
	CreateCase(ctx context.Context, c *models.Case) error
	GetCase(ctx context.Context, id string) (*models.Case, error)
	ListCases(ctx context.Context, ownerUserID string) ([]models.Case, error)
	UpdateCase(ctx context.Context, id, ownerUserID string, upd CaseUpdate) error
	AssignRecordToCase(ctx context.Context, recordID, caseID, actorUserID, ip, userAgent string, now time.Time) error
	RemoveRecordFromCase(ctx context.Context, recordID, actorUserID, ip, userAgent string, now time.Time) error
}

// ShareStore is the persistence surface of share links.
type ShareStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	GetRecord(ctx context.Context, id string) (*RecordWithVersion, error)
	CreateShareLink(ctx context.Context, l *models.ShareLink) error
	GetShareLink(ctx context.Context, id string) (*models.ShareLink, error)
	GetShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error)
	ListShareLinks(ctx context.Context, recordID string) ([]models.ShareLink, error)
	RevokeShareLink(ctx context.Context, id string, now time.Time) (*models.ShareLink, error)
	ListAttachments(ctx context.Context, recordID string, includeInactive bool) ([]models.Attachment, error)
}

// UserStore is the persistence surface of account management.
type UserStore interface {
	NewID(ctx context.Context, prefix string) (string, error)
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserDisabled(ctx context.Context, id string, disabled bool) error
}

var (
	_ RecordStore     = (*Store)(nil)
	_ AuditStore      = (*Store)(nil)
	_ ExhibitStore    = (*Store)(nil)
	_ AttachmentStore = (*Store)(nil)
	_ OrganizeStore   = (*Store)(nil)
	_ ShareStore      = (*Store)(nil)
	_ UserStore       = (*Store)(nil)
)
