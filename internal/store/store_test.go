package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

var seedCounter int

// seedUser inserts an enabled user and returns its id.
func seedUser(t *testing.T, st *Store) string {
	t.Helper()
	seedCounter++
	id := fmt.Sprintf("us-%04d", seedCounter)
	u := &User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", seedCounter),
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// seedRecord creates a record with one version for the given owner.
func seedRecord(t *testing.T, st *Store, owner, content string) *RecordWithVersion {
	t.Helper()
	seedCounter++
	rv, err := st.CreateRecord(context.Background(), CreateRecordParams{
		RecordID:    fmt.Sprintf("rc-%04d", seedCounter),
		VersionID:   fmt.Sprintf("vs-%04d", seedCounter),
		OwnerUserID: owner,
		ContentText: content,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rv
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	st.Close()
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	got, err := parseTime(formatTime(now))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("expected %v, got %v", now, got)
	}
}

func TestIsUniqueConstraint(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)

	tag := &models.Tag{ID: "tg-aaaa", OwnerUserID: owner, Name: "privileged", Color: models.DefaultTagColor, CreatedAt: time.Now().UTC()}
	if err := st.CreateTag(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	dup := &models.Tag{ID: "tg-bbbb", OwnerUserID: owner, Name: "privileged", Color: models.DefaultTagColor, CreatedAt: time.Now().UTC()}
	err := st.CreateTag(ctx, dup)
	if err == nil {
		t.Fatal("expected unique constraint error")
	}
	if !IsUniqueConstraint(err) {
		t.Fatalf("expected unique constraint, got %v", err)
	}
}
