package store

import (
	"context"
	"database/sql"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

const historyCols = "h.id, h.record_id, h.version_id, h.change_type, h.change_summary, h.actor_user_id, h.system_generated, h.ip_address, h.user_agent, h.created_at"

// AppendHistory inserts one audit entry outside any composite operation.
// Read-path access events (VIEW, DOWNLOAD, SHARE_VIEW) land here.
func (s *Store) AppendHistory(ctx context.Context, e *models.HistoryEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertHistoryTx(ctx, tx, e)
	})
}

// ListHistory returns every audit entry for a record in causal order,
// oldest first, with the autoincrement ID breaking timestamp ties.
func (s *Store) ListHistory(ctx context.Context, recordID string) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+historyCols+`
		FROM edit_history h
		WHERE h.record_id = ?
		ORDER BY h.created_at ASC, h.id ASC`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// insertHistoryTx appends one audit row inside a transaction. The ID is
// assigned by the database and written back to e.
func insertHistoryTx(ctx context.Context, tx *sql.Tx, e *models.HistoryEntry) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO edit_history (record_id, version_id, change_type, change_summary, actor_user_id, system_generated, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RecordID, nullIfEmpty(e.VersionID), string(e.ChangeType), e.ChangeSummary,
		nullIfEmpty(e.ActorUserID), e.SystemGenerated, nullIfEmpty(e.IPAddress),
		nullIfEmpty(e.UserAgent), formatTime(e.CreatedAt))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func scanHistoryEntry(scanner interface{ Scan(...any) error }) (*models.HistoryEntry, error) {
	var e models.HistoryEntry
	var versionID, actorID, ip, userAgent sql.NullString
	var created string
	err := scanner.Scan(&e.ID, &e.RecordID, &versionID, &e.ChangeType, &e.ChangeSummary,
		&actorID, &e.SystemGenerated, &ip, &userAgent, &created)
	if err != nil {
		return nil, err
	}
	e.VersionID = versionID.String
	e.ActorUserID = actorID.String
	e.IPAddress = ip.String
	e.UserAgent = userAgent.String
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = t
	return &e, nil
}
