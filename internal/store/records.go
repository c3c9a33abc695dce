package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

const (
	recordCols  = "r.id, r.owner_user_id, r.status, r.case_id, r.current_version_id, r.created_at"
	versionCols = "v.id, v.record_id, v.version_number, v.content_text, v.event_date, v.edited_by_user_id, v.is_original, v.created_at"
)

// RecordWithVersion pairs a record with its current content snapshot. A
// record is only externally visible together with its current version.
type RecordWithVersion struct {
	Record  models.Record
	Current models.RecordVersion
}

// CreateRecordParams carries everything needed to create a record with its
// initial version in one transaction.
type CreateRecordParams struct {
	RecordID      string
	VersionID     string
	OwnerUserID   string
	ContentText   string
	EventDateText string
	IPAddress     string
	UserAgent     string
	Now           time.Time
}

// AddVersionParams describes a content edit. An empty ChangeType means
// MODIFIED; SYSTEM marks the history entry as system-generated.
type AddVersionParams struct {
	VersionID     string
	ContentText   string
	EventDateText string
	ActorUserID   string
	ChangeType    models.ChangeType
	ChangeSummary string
	IPAddress     string
	UserAgent     string
	Now           time.Time
}

// AddVersionResult reports whether a version was actually created. Created is
// false when the submitted content matched the current version exactly; in
// that case Version is the existing current version.
type AddVersionResult struct {
	Created bool
	Version models.RecordVersion
}

// RestoreVersionParams describes restoring an older version's content.
type RestoreVersionParams struct {
	SourceVersionID string
	NewVersionID    string
	ActorUserID     string
	IPAddress       string
	UserAgent       string
	Now             time.Time
}

// RecordFilter narrows ListRecords. Zero values mean no constraint; NoCase
// selects records assigned to no case and wins over CaseID.
type RecordFilter struct {
	OwnerUserID string
	Status      models.RecordStatus
	CaseID      string
	NoCase      bool
	TagID       string
	Search      string
	SortAsc     bool
}

// CreateRecord inserts the record, its immutable version 1, the current
// pointer, and the ADDED history entry as one atomic unit.
func (s *Store) CreateRecord(ctx context.Context, p CreateRecordParams) (*RecordWithVersion, error) {
	var out RecordWithVersion
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := userActiveTx(ctx, tx, p.OwnerUserID); err != nil {
			return err
		}

		rec := models.Record{
			ID:          p.RecordID,
			OwnerUserID: p.OwnerUserID,
			Status:      models.StatusActive,
			CreatedAt:   p.Now,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, owner_user_id, status, case_id, current_version_id, created_at)
			VALUES (?, ?, ?, NULL, NULL, ?)`,
			rec.ID, rec.OwnerUserID, string(rec.Status), formatTime(p.Now))
		if err != nil {
			return err
		}

		version := models.RecordVersion{
			ID:             p.VersionID,
			RecordID:       rec.ID,
			VersionNumber:  1,
			ContentText:    p.ContentText,
			EventDateText:  p.EventDateText,
			EditedByUserID: p.OwnerUserID,
			IsOriginal:     true,
			CreatedAt:      p.Now,
		}
		if err := insertVersionTx(ctx, tx, &version); err != nil {
			return err
		}
		if err := setCurrentVersionTx(ctx, tx, rec.ID, version.ID); err != nil {
			return err
		}
		rec.CurrentVersionID = version.ID

		entry := models.HistoryEntry{
			RecordID:      rec.ID,
			VersionID:     version.ID,
			ChangeType:    models.ChangeAdded,
			ChangeSummary: "Created record",
			ActorUserID:   p.OwnerUserID,
			IPAddress:     p.IPAddress,
			UserAgent:     p.UserAgent,
			CreatedAt:     p.Now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		out = RecordWithVersion{Record: rec, Current: version}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddVersion appends a new version and moves the current pointer. Submitting
// content identical to the current version is a deliberate no-op: no version,
// no pointer move, no history entry.
func (s *Store) AddVersion(ctx context.Context, recordID string, p AddVersionParams) (*AddVersionResult, error) {
	var out AddVersionResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := recordTx(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, p.ActorUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != p.ActorUserID {
			return ErrNotOwner
		}

		current, err := versionByIDTx(ctx, tx, rec.CurrentVersionID)
		if err != nil {
			return err
		}
		if current != nil && current.ContentText == p.ContentText {
			out = AddVersionResult{Created: false, Version: *current}
			return nil
		}

		next, err := nextVersionNumberTx(ctx, tx, recordID)
		if err != nil {
			return err
		}
		version := models.RecordVersion{
			ID:             p.VersionID,
			RecordID:       recordID,
			VersionNumber:  next,
			ContentText:    p.ContentText,
			EventDateText:  p.EventDateText,
			EditedByUserID: p.ActorUserID,
			IsOriginal:     next == 1,
			CreatedAt:      p.Now,
		}
		if err := insertVersionTx(ctx, tx, &version); err != nil {
			return err
		}
		if err := setCurrentVersionTx(ctx, tx, recordID, version.ID); err != nil {
			return err
		}

		summary := p.ChangeSummary
		if summary == "" {
			summary = fmt.Sprintf("Edited content (version %d)", next)
		}
		changeType := p.ChangeType
		if changeType == "" {
			changeType = models.ChangeModified
		}
		entry := models.HistoryEntry{
			RecordID:        recordID,
			VersionID:       version.ID,
			ChangeType:      changeType,
			ChangeSummary:   summary,
			ActorUserID:     p.ActorUserID,
			SystemGenerated: changeType == models.ChangeSystem,
			IPAddress:       p.IPAddress,
			UserAgent:       p.UserAgent,
			CreatedAt:       p.Now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		out = AddVersionResult{Created: true, Version: version}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RestoreVersion copies an older version's content into a brand new version
// at the top of the chain. The source version is untouched; the chain never
// rewinds.
func (s *Store) RestoreVersion(ctx context.Context, recordID string, p RestoreVersionParams) (*models.RecordVersion, error) {
	var out models.RecordVersion
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := recordTx(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, p.ActorUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != p.ActorUserID {
			return ErrNotOwner
		}

		source, err := versionByIDTx(ctx, tx, p.SourceVersionID)
		if err != nil {
			return err
		}
		if source == nil || source.RecordID != recordID {
			return ErrVersionNotFound
		}

		next, err := nextVersionNumberTx(ctx, tx, recordID)
		if err != nil {
			return err
		}
		version := models.RecordVersion{
			ID:             p.NewVersionID,
			RecordID:       recordID,
			VersionNumber:  next,
			ContentText:    source.ContentText,
			EventDateText:  source.EventDateText,
			EditedByUserID: p.ActorUserID,
			CreatedAt:      p.Now,
		}
		if err := insertVersionTx(ctx, tx, &version); err != nil {
			return err
		}
		if err := setCurrentVersionTx(ctx, tx, recordID, version.ID); err != nil {
			return err
		}

		entry := models.HistoryEntry{
			RecordID:      recordID,
			VersionID:     version.ID,
			ChangeType:    models.ChangeModified,
			ChangeSummary: fmt.Sprintf("Restored version %d (%s)", source.VersionNumber, source.ID),
			ActorUserID:   p.ActorUserID,
			IPAddress:     p.IPAddress,
			UserAgent:     p.UserAgent,
			CreatedAt:     p.Now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		out = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRecordStatus transitions the record lifecycle state. Setting the status
// it already has is an idempotent no-op with no history entry; the returned
// bool reports whether anything changed.
func (s *Store) SetRecordStatus(ctx context.Context, recordID, actorUserID string, status models.RecordStatus, ip, userAgent string, now time.Time) (*models.Record, bool, error) {
	var out models.Record
	changed := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := recordTx(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, actorUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != actorUserID {
			return ErrNotOwner
		}

		if rec.Status == status {
			out = *rec
			return nil
		}

		if _, err := tx.ExecContext(ctx, "UPDATE records SET status = ? WHERE id = ?", string(status), recordID); err != nil {
			return err
		}

		summary := "Unarchived record"
		if status == models.StatusArchived {
			summary = "Archived record"
		}
		entry := models.HistoryEntry{
			RecordID:      recordID,
			ChangeType:    models.ChangeModified,
			ChangeSummary: summary,
			ActorUserID:   actorUserID,
			IPAddress:     ip,
			UserAgent:     userAgent,
			CreatedAt:     now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		rec.Status = status
		out = *rec
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, changed, nil
}

// GetRecord returns a record joined with its current version, or nil if it
// does not exist. Records without a current version are not visible.
func (s *Store) GetRecord(ctx context.Context, id string) (*RecordWithVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordCols+`, `+versionCols+`
		FROM records r
		JOIN record_versions v ON v.id = r.current_version_id
		WHERE r.id = ?`, id)
	rv, err := scanRecordWithVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// RecordExists reports whether a record row exists, visible or not.
func (s *Store) RecordExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecords returns records with their current versions, filtered and
// sorted by creation time (newest first unless SortAsc).
func (s *Store) ListRecords(ctx context.Context, filter RecordFilter) ([]RecordWithVersion, error) {
	query := `
		SELECT ` + recordCols + `, ` + versionCols + `
		FROM records r
		JOIN record_versions v ON v.id = r.current_version_id`
	var where []string
	var args []any

	if filter.OwnerUserID != "" {
		where = append(where, "r.owner_user_id = ?")
		args = append(args, filter.OwnerUserID)
	}
	if filter.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.NoCase {
		where = append(where, "r.case_id IS NULL")
	} else if filter.CaseID != "" {
		where = append(where, "r.case_id = ?")
		args = append(args, filter.CaseID)
	}
	if filter.TagID != "" {
		where = append(where, "r.id IN (SELECT record_id FROM record_tags WHERE tag_id = ?)")
		args = append(args, filter.TagID)
	}
	if filter.Search != "" {
		where = append(where, "v.content_text LIKE '%' || ? || '%'")
		args = append(args, filter.Search)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.SortAsc {
		query += " ORDER BY r.created_at ASC, r.id ASC"
	} else {
		query += " ORDER BY r.created_at DESC, r.id DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordWithVersion
	for rows.Next() {
		rv, err := scanRecordWithVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

// ListVersions returns the full version chain, newest first.
func (s *Store) ListVersions(ctx context.Context, recordID string) ([]models.RecordVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionCols+`
		FROM record_versions v
		WHERE v.record_id = ?
		ORDER BY v.version_number DESC`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RecordVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// GetVersion returns one version by ID, or nil if absent.
func (s *Store) GetVersion(ctx context.Context, id string) (*models.RecordVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionCols+`
		FROM record_versions v
		WHERE v.id = ?`, id)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func recordTx(ctx context.Context, tx *sql.Tx, id string) (*models.Record, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, owner_user_id, status, case_id, current_version_id, created_at
		FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func userActiveTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if userID == "" {
		return ErrUserNotFound
	}
	var count int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ? AND disabled = 0", userID).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func versionByIDTx(ctx context.Context, tx *sql.Tx, id string) (*models.RecordVersion, error) {
	if id == "" {
		return nil, nil
	}
	row := tx.QueryRowContext(ctx, `
		SELECT `+versionCols+`
		FROM record_versions v
		WHERE v.id = ?`, id)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func nextVersionNumberTx(ctx context.Context, tx *sql.Tx, recordID string) (int, error) {
	var max int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version_number), 0) FROM record_versions WHERE record_id = ?",
		recordID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func insertVersionTx(ctx context.Context, tx *sql.Tx, v *models.RecordVersion) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO record_versions (id, record_id, version_number, content_text, event_date, edited_by_user_id, is_original, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.RecordID, v.VersionNumber, v.ContentText, nullIfEmpty(v.EventDateText),
		v.EditedByUserID, v.IsOriginal, formatTime(v.CreatedAt))
	return err
}

func setCurrentVersionTx(ctx context.Context, tx *sql.Tx, recordID, versionID string) error {
	_, err := tx.ExecContext(ctx, "UPDATE records SET current_version_id = ? WHERE id = ?", versionID, recordID)
	return err
}

func scanRecord(scanner interface{ Scan(...any) error }) (*models.Record, error) {
	var rec models.Record
	var caseID, currentID sql.NullString
	var created string
	if err := scanner.Scan(&rec.ID, &rec.OwnerUserID, &rec.Status, &caseID, &currentID, &created); err != nil {
		return nil, err
	}
	rec.CaseID = caseID.String
	rec.CurrentVersionID = currentID.String
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = t
	return &rec, nil
}

func scanVersion(scanner interface{ Scan(...any) error }) (*models.RecordVersion, error) {
	var v models.RecordVersion
	var eventDate sql.NullString
	var created string
	if err := scanner.Scan(&v.ID, &v.RecordID, &v.VersionNumber, &v.ContentText, &eventDate,
		&v.EditedByUserID, &v.IsOriginal, &created); err != nil {
		return nil, err
	}
	v.EventDateText = eventDate.String
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = t
	return &v, nil
}

func scanRecordWithVersion(scanner interface{ Scan(...any) error }) (*RecordWithVersion, error) {
	var rv RecordWithVersion
	var caseID, currentID, eventDate sql.NullString
	var recCreated, vCreated string
	err := scanner.Scan(
		&rv.Record.ID, &rv.Record.OwnerUserID, &rv.Record.Status, &caseID, &currentID, &recCreated,
		&rv.Current.ID, &rv.Current.RecordID, &rv.Current.VersionNumber, &rv.Current.ContentText,
		&eventDate, &rv.Current.EditedByUserID, &rv.Current.IsOriginal, &vCreated)
	if err != nil {
		return nil, err
	}
	rv.Record.CaseID = caseID.String
	rv.Record.CurrentVersionID = currentID.String
	rv.Current.EventDateText = eventDate.String
	if rv.Record.CreatedAt, err = parseTime(recCreated); err != nil {
		return nil, err
	}
	if rv.Current.CreatedAt, err = parseTime(vCreated); err != nil {
		return nil, err
	}
	return &rv, nil
}
