package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

const exhibitCols = "e.id, e.record_id, e.owner_user_id, e.exhibit_code, e.label, e.created_at"

// DesignateExhibitParams describes designating one record as an exhibit.
type DesignateExhibitParams struct {
	ExhibitID   string
	RecordID    string
	OwnerUserID string
	Label       string
	IPAddress   string
	UserAgent   string
	Now         time.Time
}

// DesignateExhibit allocates the owner's next exhibit code and binds it to
// the record. Codes come from a per-owner high-water mark, so a removed
// exhibit's code is never handed out again.
func (s *Store) DesignateExhibit(ctx context.Context, p DesignateExhibitParams) (*models.Exhibit, error) {
	var out models.Exhibit
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := recordTx(ctx, tx, p.RecordID)
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, p.OwnerUserID); err != nil {
			return err
		}
		if rec.OwnerUserID != p.OwnerUserID {
			return ErrNotOwner
		}

		var existing int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM exhibits WHERE record_id = ?", p.RecordID).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return ErrExhibitExists
		}

		index, err := nextExhibitIndexTx(ctx, tx, p.OwnerUserID)
		if err != nil {
			return err
		}
		code := models.ExhibitCodeForIndex(index)

		exhibit := models.Exhibit{
			ID:          p.ExhibitID,
			RecordID:    p.RecordID,
			OwnerUserID: p.OwnerUserID,
			ExhibitCode: code,
			Label:       p.Label,
			CreatedAt:   p.Now,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO exhibits (id, record_id, owner_user_id, exhibit_code, label, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			exhibit.ID, exhibit.RecordID, exhibit.OwnerUserID, exhibit.ExhibitCode,
			nullIfEmpty(exhibit.Label), formatTime(p.Now))
		if err != nil {
			return err
		}

		entry := models.HistoryEntry{
			RecordID:        p.RecordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   fmt.Sprintf("Designated as Exhibit %s", code),
			ActorUserID:     p.OwnerUserID,
			SystemGenerated: true,
			IPAddress:       p.IPAddress,
			UserAgent:       p.UserAgent,
			CreatedAt:       p.Now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		out = exhibit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveExhibit deletes the designation. The code stays burned in the
// owner's counter and the removal is recorded in the record's history.
func (s *Store) RemoveExhibit(ctx context.Context, exhibitID, actorUserID, ip, userAgent string, now time.Time) (*models.Exhibit, error) {
	var out models.Exhibit
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+exhibitCols+`
			FROM exhibits e
			WHERE e.id = ?`, exhibitID)
		exhibit, err := scanExhibit(row)
		if err == sql.ErrNoRows {
			return ErrExhibitNotFound
		}
		if err != nil {
			return err
		}
		if err := userActiveTx(ctx, tx, actorUserID); err != nil {
			return err
		}
		if exhibit.OwnerUserID != actorUserID {
			return ErrNotOwner
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM exhibits WHERE id = ?", exhibitID); err != nil {
			return err
		}

		entry := models.HistoryEntry{
			RecordID:        exhibit.RecordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   fmt.Sprintf("Removed exhibit designation (was Exhibit %s)", exhibit.ExhibitCode),
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		if err := insertHistoryTx(ctx, tx, &entry); err != nil {
			return err
		}

		out = *exhibit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExhibitByRecord returns the record's designation, or nil if none.
func (s *Store) GetExhibitByRecord(ctx context.Context, recordID string) (*models.Exhibit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+exhibitCols+`
		FROM exhibits e
		WHERE e.record_id = ?`, recordID)
	exhibit, err := scanExhibit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return exhibit, nil
}

// ListExhibits returns an owner's exhibits in allocation order. Plain
// lexicographic order would put "AA" before "Z", so codes sort by length
// first.
func (s *Store) ListExhibits(ctx context.Context, ownerUserID string) ([]models.Exhibit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exhibitCols+`
		FROM exhibits e
		WHERE e.owner_user_id = ?
		ORDER BY LENGTH(e.exhibit_code), e.exhibit_code`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Exhibit
	for rows.Next() {
		exhibit, err := scanExhibit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *exhibit)
	}
	return out, rows.Err()
}

// nextExhibitIndexTx reads and advances the owner's high-water mark.
func nextExhibitIndexTx(ctx context.Context, tx *sql.Tx, ownerUserID string) (int, error) {
	var last sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT last_index FROM exhibit_counters WHERE owner_user_id = ?",
		ownerUserID).Scan(&last)
	next := 0
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return 0, err
	default:
		next = int(last.Int64) + 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exhibit_counters (owner_user_id, last_index) VALUES (?, ?)
		ON CONFLICT(owner_user_id) DO UPDATE SET last_index = excluded.last_index`,
		ownerUserID, next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func scanExhibit(scanner interface{ Scan(...any) error }) (*models.Exhibit, error) {
	var e models.Exhibit
	var label sql.NullString
	var created string
	if err := scanner.Scan(&e.ID, &e.RecordID, &e.OwnerUserID, &e.ExhibitCode, &label, &created); err != nil {
		return nil, err
	}
	e.Label = label.String
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = t
	return &e, nil
}
