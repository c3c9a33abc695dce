package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

const attachmentCols = "a.id, a.record_id, a.media_type, a.filename, a.storage_key, a.file_hash, a.size_bytes, a.active, a.uploaded_at"

// CreateAttachment registers stored content against a record. The hash and
// size were computed at ingestion and are persisted verbatim; the attach
// event is written to the record's history in the same transaction.
func (s *Store) CreateAttachment(ctx context.Context, a *models.Attachment, actorUserID, ip, userAgent string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := recordTx(ctx, tx, a.RecordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, actorUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != actorUserID {
			return ErrNotOwner
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO attachments (id, record_id, media_type, filename, storage_key, file_hash, size_bytes, active, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
			a.ID, a.RecordID, a.MediaType, nullIfEmpty(a.Filename), a.StorageKey,
			a.FileHash, a.SizeBytes, formatTime(a.UploadedAt))
		if err != nil {
			return err
		}

		summary := "Attached file"
		if a.Filename != "" {
			summary += ": " + a.Filename
		}
		entry := models.HistoryEntry{
			RecordID:        a.RecordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   summary,
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       a.UploadedAt,
		}
		return insertHistoryTx(ctx, tx, &entry)
	})
}

// GetAttachment returns one attachment by ID, active or not, or nil if the
// row does not exist.
func (s *Store) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+attachmentCols+`
		FROM attachments a
		WHERE a.id = ?`, id)
	a, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttachments returns a record's attachments, newest first. Inactive
// rows are excluded unless includeInactive is set.
func (s *Store) ListAttachments(ctx context.Context, recordID string, includeInactive bool) ([]models.Attachment, error) {
	query := `
		SELECT ` + attachmentCols + `
		FROM attachments a
		WHERE a.record_id = ?`
	if !includeInactive {
		query += " AND a.active = 1"
	}
	query += " ORDER BY a.uploaded_at DESC, a.id DESC"

	rows, err := s.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// SoftDeleteAttachment clears the active flag. Bytes, hash, and the row
// itself are retained. Deleting an already-inactive attachment is a no-op.
func (s *Store) SoftDeleteAttachment(ctx context.Context, id, actorUserID, ip, userAgent string, now time.Time) (*models.Attachment, error) {
	var out models.Attachment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+attachmentCols+`
			FROM attachments a
			WHERE a.id = ?`, id)
		a, err := scanAttachment(row)
		if err == sql.ErrNoRows {
			return ErrAttachmentNotFound
		}
		if err != nil {
			return err
		}
		rec, err := recordTx(ctx, tx, a.RecordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, actorUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != actorUserID {
			return ErrNotOwner
		}

		if !a.Active {
			out = *a
			return nil
		}

		if _, err := tx.ExecContext(ctx, "UPDATE attachments SET active = 0 WHERE id = ?", id); err != nil {
			return err
		}

		summary := "Removed attachment"
		if a.Filename != "" {
			summary += ": " + a.Filename
		}
		entry := models.HistoryEntry{
			RecordID:        a.RecordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   summary,
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		a.Active = false
		out = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func scanAttachment(scanner interface{ Scan(...any) error }) (*models.Attachment, error) {
	var a models.Attachment
	var filename sql.NullString
	var uploaded string
	err := scanner.Scan(&a.ID, &a.RecordID, &a.MediaType, &filename, &a.StorageKey,
		&a.FileHash, &a.SizeBytes, &a.Active, &uploaded)
	if err != nil {
		return nil, err
	}
	a.Filename = filename.String
	t, err := parseTime(uploaded)
	if err != nil {
		return nil, err
	}
	a.UploadedAt = t
	return &a, nil
}
