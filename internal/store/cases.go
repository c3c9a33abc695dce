package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

// CaseUpdate carries partial updates for a case. Nil fields are left alone.
type CaseUpdate struct {
	Name        *string
	Description *string
	CaseNumber  *string
	IsActive    *bool
}

// CreateCase inserts a case. Per-owner name uniqueness surfaces as a
// unique-constraint error.
func (s *Store) CreateCase(ctx context.Context, c *models.Case) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (id, owner_user_id, name, description, case_number, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerUserID, c.Name, nullIfEmpty(c.Description), nullIfEmpty(c.CaseNumber),
		c.IsActive, formatTime(c.CreatedAt))
	return err
}

// GetCase returns one case with its record count, or nil if absent.
func (s *Store) GetCase(ctx context.Context, id string) (*models.Case, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.owner_user_id, c.name, c.description, c.case_number, c.is_active, c.created_at,
		       (SELECT COUNT(*) FROM records r WHERE r.case_id = c.id)
		FROM cases c
		WHERE c.id = ?`, id)
	kase, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return kase, nil
}

// ListCases returns an owner's cases by name with record counts.
func (s *Store) ListCases(ctx context.Context, ownerUserID string) ([]models.Case, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.owner_user_id, c.name, c.description, c.case_number, c.is_active, c.created_at,
		       (SELECT COUNT(*) FROM records r WHERE r.case_id = c.id)
		FROM cases c
		WHERE c.owner_user_id = ?
		ORDER BY c.name`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		kase, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *kase)
	}
	return out, rows.Err()
}

// UpdateCase applies a partial update to an owned case.
func (s *Store) UpdateCase(ctx context.Context, id, ownerUserID string, upd CaseUpdate) error {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullIfEmpty(*upd.Description))
	}
	if upd.CaseNumber != nil {
		sets = append(sets, "case_number = ?")
		args = append(args, nullIfEmpty(*upd.CaseNumber))
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, ownerUserID)
	res, err := s.db.ExecContext(ctx,
		"UPDATE cases SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner_user_id = ?",
		args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCaseNotFound
	}
	return nil
}

// AssignRecordToCase moves a record into a case and writes the assignment
// to its history. Reassigning to the case it is already in is a no-op.
func (s *Store) AssignRecordToCase(ctx context.Context, recordID, caseID, actorUserID, ip, userAgent string, now time.Time) error {
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

		var name string
		err = tx.QueryRowContext(ctx,
			"SELECT name FROM cases WHERE id = ? AND owner_user_id = ?",
			caseID, actorUserID).Scan(&name)
		if err == sql.ErrNoRows {
			return ErrCaseNotFound
		}
		if err != nil {
			return err
		}

		if rec.CaseID == caseID {
			return nil
		}

		if _, err := tx.ExecContext(ctx, "UPDATE records SET case_id = ? WHERE id = ?", caseID, recordID); err != nil {
			return err
		}

		entry := models.HistoryEntry{
			RecordID:        recordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   "Assigned to case: " + name,
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		return insertHistoryTx(ctx, tx, &entry)
	})
}

// RemoveRecordFromCase clears the record's case assignment. A record with
// no case is a no-op.
func (s *Store) RemoveRecordFromCase(ctx context.Context, recordID, actorUserID, ip, userAgent string, now time.Time) error {
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

		if rec.CaseID == "" {
			return nil
		}

		if _, err := tx.ExecContext(ctx, "UPDATE records SET case_id = NULL WHERE id = ?", recordID); err != nil {
			return err
		}

		entry := models.HistoryEntry{
			RecordID:        recordID,
			ChangeType:      models.ChangeSystem,
			ChangeSummary:   "Removed from case",
			ActorUserID:     actorUserID,
			SystemGenerated: true,
			IPAddress:       ip,
			UserAgent:       userAgent,
			CreatedAt:       now,
		}
		return insertHistoryTx(ctx, tx, &entry)
	})
}

func scanCase(scanner interface{ Scan(...any) error }) (*models.Case, error) {
	var c models.Case
	var description, caseNumber sql.NullString
	var created string
	err := scanner.Scan(&c.ID, &c.OwnerUserID, &c.Name, &description, &caseNumber,
		&c.IsActive, &created, &c.RecordCount)
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	c.CaseNumber = caseNumber.String
	ts, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = ts
	return &c, nil
}
