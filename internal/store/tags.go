package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

// CreateTag inserts a tag. The per-owner name uniqueness constraint surfaces
// as a unique-constraint error for the caller to map.
func (s *Store) CreateTag(ctx context.Context, t *models.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, owner_user_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.OwnerUserID, t.Name, t.Color, formatTime(t.CreatedAt))
	return err
}

// GetTag returns one tag by ID with its record count, or nil if absent.
func (s *Store) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.owner_user_id, t.name, t.color, t.created_at,
		       (SELECT COUNT(*) FROM record_tags rt WHERE rt.tag_id = t.id)
		FROM tags t
		WHERE t.id = ?`, id)
	tag, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns an owner's tags by name with record counts.
func (s *Store) ListTags(ctx context.Context, ownerUserID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.owner_user_id, t.name, t.color, t.created_at,
		       (SELECT COUNT(*) FROM record_tags rt WHERE rt.tag_id = t.id)
		FROM tags t
		WHERE t.owner_user_id = ?
		ORDER BY t.name`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tag)
	}
	return out, rows.Err()
}

// ListRecordTags returns the tags applied to one record, by name.
func (s *Store) ListRecordTags(ctx context.Context, recordID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.owner_user_id, t.name, t.color, t.created_at, 0
		FROM tags t
		JOIN record_tags rt ON rt.tag_id = t.id
		WHERE rt.record_id = ?
		ORDER BY t.name`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tag)
	}
	return out, rows.Err()
}

// TagRecord applies a tag to a record and writes the tagging event to the
// record's history. Tagging an already-tagged record is a no-op.
func (s *Store) TagRecord(ctx context.Context, recordID, tagID, actorUserID, ip, userAgent string, now time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
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
		name, err := ownedTagNameTx(ctx, tx, tagID, actorUserID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO record_tags (record_id, tag_id) VALUES (?, ?)",
			recordID, tagID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		entry := models.HistoryEntry{
			RecordID:        recordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   "Tagged: " + name,
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		return insertHistoryTx(ctx, tx, &entry)
	})
}

// UntagRecord removes a tag from a record. Removing an absent tag is a
// no-op with no history entry.
func (s *Store) UntagRecord(ctx context.Context, recordID, tagID, actorUserID, ip, userAgent string, now time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
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
		name, err := ownedTagNameTx(ctx, tx, tagID, actorUserID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM record_tags WHERE record_id = ? AND tag_id = ?",
			recordID, tagID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		entry := models.HistoryEntry{
			RecordID:        recordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   "Untagged: " + name,
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		return insertHistoryTx(ctx, tx, &entry)
	})
}

// DeleteTag removes a tag and all its record associations. History entries
// that mention the tag are untouched.
func (s *Store) DeleteTag(ctx context.Context, tagID, ownerUserID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := ownedTagNameTx(ctx, tx, tagID, ownerUserID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM record_tags WHERE tag_id = ?", tagID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", tagID)
		return err
	})
}

func ownedTagNameTx(ctx context.Context, tx *sql.Tx, tagID, ownerUserID string) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		"SELECT name FROM tags WHERE id = ? AND owner_user_id = ?",
		tagID, ownerUserID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", ErrTagNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	var created string
	if err := scanner.Scan(&t.ID, &t.OwnerUserID, &t.Name, &t.Color, &created, &t.RecordCount); err != nil {
		return nil, err
	}
	ts, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = ts
	return &t, nil
}
