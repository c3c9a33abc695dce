package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

func TestShareLinkLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Shared record.")
	now := time.Now().UTC()

	link := &models.ShareLink{
		ID:        "sh-lc01",
		RecordID:  rv.Record.ID,
		Token:     "tok-abc123",
		CreatedAt: now,
	}
	if err := st.CreateShareLink(ctx, link); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetShareLinkByToken(ctx, "tok-abc123")
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if got == nil || got.ID != "sh-lc01" {
		t.Fatalf("expected sh-lc01, got %+v", got)
	}
	if !got.Usable(now) {
		t.Fatal("expected link usable")
	}

	revoked, err := st.RevokeShareLink(ctx, "sh-lc01", now)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatal("expected revoked_at stamped")
	}
	if revoked.Usable(now) {
		t.Fatal("expected revoked link unusable")
	}

	// Revoked links stay listed as audit evidence.
	links, err := st.ListShareLinks(ctx, rv.Record.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
}

func TestRevokeShareLinkTwice(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Shared once.")
	now := time.Now().UTC()

	link := &models.ShareLink{ID: "sh-rv01", RecordID: rv.Record.ID, Token: "tok-rv", CreatedAt: now}
	if err := st.CreateShareLink(ctx, link); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.RevokeShareLink(ctx, link.ID, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err := st.RevokeShareLink(ctx, link.ID, now)
	if !errors.Is(err, ErrShareRevoked) {
		t.Fatalf("expected ErrShareRevoked, got %v", err)
	}
}

func TestShareLinkExpiry(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := &models.ShareLink{ExpiresAt: &past}
	if expired.Usable(now) {
		t.Fatal("expected expired link unusable")
	}
	live := &models.ShareLink{ExpiresAt: &future}
	if !live.Usable(now) {
		t.Fatal("expected future expiry usable")
	}
	forever := &models.ShareLink{}
	if !forever.Usable(now) {
		t.Fatal("expected no expiry usable")
	}
}

func TestGetShareLinkMissing(t *testing.T) {
	st := testStore(t)

	got, err := st.GetShareLinkByToken(context.Background(), "tok-none")
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	_, err = st.RevokeShareLink(context.Background(), "sh-none", time.Now().UTC())
	if !errors.Is(err, ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound, got %v", err)
	}
}
