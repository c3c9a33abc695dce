package server

import (
	"context"
	"testing"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
)

func TestAuditHistoryAndAccessLogging(t *testing.T) {
	st := newTestStore(t)
	audit := NewAuditService(st, nil)
	records := NewRecordService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	rec := mustCreateRecord(t, records, actor, "Audited record.")

	audit.LogAccess(ctx, rec.Record.ID, models.AccessView, testAudit(actor))
	audit.LogAccess(ctx, rec.Record.ID, models.AccessDownload, testAudit(actor))

	hist, err := audit.History(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(hist.Entries))
	}
	view := hist.Entries[1]
	if view.ChangeType != models.ChangeSystem || !view.SystemGenerated {
		t.Fatalf("expected system access entry, got %+v", view)
	}
	if view.ChangeSummary != "Viewed record" {
		t.Fatalf("unexpected summary %q", view.ChangeSummary)
	}
	if hist.Entries[2].ChangeSummary != "Downloaded attachment" {
		t.Fatalf("unexpected summary %q", hist.Entries[2].ChangeSummary)
	}
	if view.IPAddress != "127.0.0.1" {
		t.Fatalf("expected client ip recorded, got %q", view.IPAddress)
	}
}

func TestAuditLogAccessSurvivesStoreFailure(t *testing.T) {
	st := newTestStore(t)
	audit := NewAuditService(st, nil)

	// Unknown record: the write fails but LogAccess must not panic or block.
	audit.LogAccess(context.Background(), "rc-zzzz", models.AccessView, testAudit("us-zzzz"))
}

func TestCustodyDocument(t *testing.T) {
	st := newTestStore(t)
	audit := NewAuditService(st, nil)
	records := NewRecordService(st)
	exhibits := NewExhibitService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	rec := mustCreateRecord(t, records, actor, "Custody subject, first version.")
	if _, err := records.Edit(ctx, rec.Record.ID, api.RecordEditRequest{ContentText: "Custody subject, second version."}, testAudit(actor)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID}, testAudit(actor)); err != nil {
		t.Fatalf("designate: %v", err)
	}

	doc, err := audit.Custody(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("custody: %v", err)
	}
	if doc.GeneratedAt.IsZero() {
		t.Fatal("expected generated_at")
	}
	if doc.Record.ID != rec.Record.ID || doc.Record.CurrentVersion != 2 {
		t.Fatalf("unexpected record section: %+v", doc.Record)
	}
	if doc.Exhibit == nil || doc.Exhibit.Code != "A" {
		t.Fatalf("expected exhibit A, got %+v", doc.Exhibit)
	}
	if len(doc.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(doc.Versions))
	}
	// Create, edit, designation: the full trail is embedded.
	if len(doc.History) != 3 {
		t.Fatalf("expected 3 history events, got %d", len(doc.History))
	}
}
