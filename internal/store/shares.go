package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

const shareCols = "s.id, s.record_id, s.token, s.created_at, s.expires_at, s.revoked_at"

// CreateShareLink inserts a share link row.
func (s *Store) CreateShareLink(ctx context.Context, l *models.ShareLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO share_links (id, record_id, token, created_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		l.ID, l.RecordID, l.Token, formatTime(l.CreatedAt), nullTime(l.ExpiresAt))
	return err
}

// GetShareLinkByToken resolves a token to its link row, or nil. Expiry and
// revocation are the caller's concern; the row is returned either way.
func (s *Store) GetShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+shareCols+`
		FROM share_links s
		WHERE s.token = ?`, token)
	link, err := scanShareLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// GetShareLink returns one link by ID, or nil.
func (s *Store) GetShareLink(ctx context.Context, id string) (*models.ShareLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+shareCols+`
		FROM share_links s
		WHERE s.id = ?`, id)
	link, err := scanShareLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// ListShareLinks returns all links for a record, newest first, including
// revoked and expired ones.
func (s *Store) ListShareLinks(ctx context.Context, recordID string) ([]models.ShareLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shareCols+`
		FROM share_links s
		WHERE s.record_id = ?
		ORDER BY s.created_at DESC, s.id DESC`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ShareLink
	for rows.Next() {
		link, err := scanShareLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *link)
	}
	return out, rows.Err()
}

// RevokeShareLink stamps revoked_at. Revoking twice is an error so the
// caller can distinguish a repeat from a fresh revocation.
func (s *Store) RevokeShareLink(ctx context.Context, id string, now time.Time) (*models.ShareLink, error) {
	var out models.ShareLink
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+shareCols+`
			FROM share_links s
			WHERE s.id = ?`, id)
		link, err := scanShareLink(row)
		if err == sql.ErrNoRows {
			return ErrShareNotFound
		}
		if err != nil {
			return err
		}
		if link.RevokedAt != nil {
			return ErrShareRevoked
		}

		if _, err := tx.ExecContext(ctx, "UPDATE share_links SET revoked_at = ? WHERE id = ?", formatTime(now), id); err != nil {
			return err
		}
		revoked := now.UTC()
		link.RevokedAt = &revoked
		out = *link
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func scanShareLink(scanner interface{ Scan(...any) error }) (*models.ShareLink, error) {
	var l models.ShareLink
	var created string
	var expires, revoked sql.NullString
	if err := scanner.Scan(&l.ID, &l.RecordID, &l.Token, &created, &expires, &revoked); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = t
	if l.ExpiresAt, err = parseNullTime(expires); err != nil {
		return nil, err
	}
	if l.RevokedAt, err = parseNullTime(revoked); err != nil {
		return nil, err
	}
	return &l, nil
}
