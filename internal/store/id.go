package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	idAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	idBodyLength = 4
	idMaxRetries = 32
)

// Entity ID prefixes. An ID is the prefix, a dash, and a random base36 body.
const (
	RecordIDPrefix     = "rc"
	VersionIDPrefix    = "vs"
	ExhibitIDPrefix    = "ex"
	AttachmentIDPrefix = "at"
	TagIDPrefix        = "tg"
	CaseIDPrefix       = "cs"
	ShareIDPrefix      = "sh"
	UserIDPrefix       = "us"
)

var idTables = map[string]string{
	RecordIDPrefix:     "records",
	VersionIDPrefix:    "record_versions",
	ExhibitIDPrefix:    "exhibits",
	AttachmentIDPrefix: "attachments",
	TagIDPrefix:        "tags",
	CaseIDPrefix:       "cases",
	ShareIDPrefix:      "share_links",
	UserIDPrefix:       "users",
}

// NewID mints a fresh, unused ID for the entity keyed by prefix.
func (s *Store) NewID(ctx context.Context, prefix string) (string, error) {
	table, ok := idTables[prefix]
	if !ok {
		return "", fmt.Errorf("unknown id prefix: %s", prefix)
	}
	return GenerateID(prefix, func(id string) (bool, error) {
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&count)
		return count > 0, err
	})
}

// GenerateID returns a fresh ID with the given prefix, retrying while exists
// reports a collision.
func GenerateID(prefix string, exists func(id string) (bool, error)) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("id prefix is required")
	}
	for i := 0; i < idMaxRetries; i++ {
		body, err := randomBase36(idBodyLength)
		if err != nil {
			return "", err
		}
		id := prefix + "-" + body
		if exists == nil {
			return id, nil
		}
		taken, err := exists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s id", prefix)
}

func randomBase36(length int) (string, error) {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf), nil
}
