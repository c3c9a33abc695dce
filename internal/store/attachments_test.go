package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

func seedAttachment(t *testing.T, st *Store, recordID, owner, id, filename string) *models.Attachment {
	t.Helper()
	a := &models.Attachment{
		ID:         id,
		RecordID:   recordID,
		MediaType:  "application/pdf",
		Filename:   filename,
		StorageKey: "sha256/" + id,
		FileHash:   "deadbeef",
		SizeBytes:  42,
		Active:     true,
		UploadedAt: time.Now().UTC(),
	}
	if err := st.CreateAttachment(context.Background(), a, owner, "", ""); err != nil {
		t.Fatalf("create attachment: %v", err)
	}
	return a
}

func TestCreateAndListAttachments(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Record with files.")

	seedAttachment(t, st, rv.Record.ID, owner, "at-aa01", "scan.pdf")
	seedAttachment(t, st, rv.Record.ID, owner, "at-aa02", "photo.jpg")

	list, err := st.ListAttachments(ctx, rv.Record.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(list))
	}

	entries, _ := st.ListHistory(ctx, rv.Record.ID)
	last := entries[len(entries)-1]
	if last.ChangeType != models.ChangeSystem || last.ChangeSummary != "Attached file: photo.jpg" {
		t.Fatalf("unexpected history entry: %+v", last)
	}
}

func TestCreateAttachmentNotOwner(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)
	other := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Protected record.")

	a := &models.Attachment{
		ID: "at-no01", RecordID: rv.Record.ID, MediaType: "text/plain",
		StorageKey: "sha256/x", FileHash: "x", Active: true, UploadedAt: time.Now().UTC(),
	}
	err := st.CreateAttachment(context.Background(), a, other, "", "")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestSoftDeleteAttachment(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Record with a removable file.")
	a := seedAttachment(t, st, rv.Record.ID, owner, "at-sd01", "draft.docx")

	deleted, err := st.SoftDeleteAttachment(ctx, a.ID, owner, "", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Active {
		t.Fatal("expected inactive after delete")
	}

	// The row survives for forensic verification.
	got, err := st.GetAttachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.FileHash != "deadbeef" {
		t.Fatalf("expected retained row with hash, got %+v", got)
	}

	active, _ := st.ListAttachments(ctx, rv.Record.ID, false)
	if len(active) != 0 {
		t.Fatalf("expected no active attachments, got %d", len(active))
	}
	all, _ := st.ListAttachments(ctx, rv.Record.ID, true)
	if len(all) != 1 {
		t.Fatalf("expected 1 attachment including inactive, got %d", len(all))
	}

	entries, _ := st.ListHistory(ctx, rv.Record.ID)
	last := entries[len(entries)-1]
	if last.ChangeSummary != "Removed attachment: draft.docx" {
		t.Fatalf("unexpected summary %q", last.ChangeSummary)
	}

	// Deleting again is a no-op, not an error.
	again, err := st.SoftDeleteAttachment(ctx, a.ID, owner, "", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("re-delete: %v", err)
	}
	if again.Active {
		t.Fatal("expected still inactive")
	}
	after, _ := st.ListHistory(ctx, rv.Record.ID)
	if len(after) != len(entries) {
		t.Fatalf("no-op delete must not add history: %d vs %d", len(after), len(entries))
	}
}

func TestSoftDeleteAttachmentMissing(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)

	_, err := st.SoftDeleteAttachment(context.Background(), "at-none", owner, "", "", time.Now().UTC())
	if !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}
