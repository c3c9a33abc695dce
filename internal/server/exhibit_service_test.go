package server

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Dvid0316/evidence-vault/internal/api"
)

func TestExhibitDesignateAndRemove(t *testing.T) {
	st := newTestStore(t)
	exhibits := NewExhibitService(st)
	records := NewRecordService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	rec := mustCreateRecord(t, records, actor, "Exhibit candidate.")

	label := "Plaintiff's phone log"
	resp, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID, Label: &label}, testAudit(actor))
	if err != nil {
		t.Fatalf("designate: %v", err)
	}
	if resp.Exhibit.ExhibitCode != "A" {
		t.Fatalf("expected code A, got %s", resp.Exhibit.ExhibitCode)
	}
	if resp.Exhibit.Label != label {
		t.Fatalf("expected label, got %q", resp.Exhibit.Label)
	}

	// The designation rides along on record reads.
	got, err := records.Get(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.Exhibit == nil || got.Exhibit.ExhibitCode != "A" {
		t.Fatalf("expected exhibit on record response, got %+v", got.Exhibit)
	}

	if _, err := exhibits.Remove(ctx, resp.Exhibit.ID, testAudit(actor)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, err = exhibits.ForRecord(ctx, rec.Record.ID)
	wantAPIError(t, err, http.StatusNotFound, ErrCodeExhibitNotFound)
}

func TestExhibitDesignateConflicts(t *testing.T) {
	st := newTestStore(t)
	exhibits := NewExhibitService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()
	rec := mustCreateRecord(t, NewRecordService(st), actor, "One designation only.")

	if _, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID}, testAudit(actor)); err != nil {
		t.Fatalf("designate: %v", err)
	}
	_, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID}, testAudit(actor))
	wantAPIError(t, err, http.StatusConflict, ErrCodeExhibitExists)
}

func TestExhibitDesignateValidation(t *testing.T) {
	st := newTestStore(t)
	exhibits := NewExhibitService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	_, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: "not-an-id"}, testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeInvalidID)

	rec := mustCreateRecord(t, NewRecordService(st), actor, "Labeled.")
	long := strings.Repeat("x", maxLabelLength+1)
	_, err = exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID, Label: &long}, testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeInvalidArgument)
}

func TestExhibitListOrder(t *testing.T) {
	st := newTestStore(t)
	exhibits := NewExhibitService(st)
	records := NewRecordService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := mustCreateRecord(t, records, actor, "Ordered exhibit.")
		if _, err := exhibits.Designate(ctx, api.ExhibitDesignateRequest{RecordID: rec.Record.ID}, testAudit(actor)); err != nil {
			t.Fatalf("designate %d: %v", i, err)
		}
	}

	list, err := exhibits.List(ctx, actor)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Exhibits) != 3 {
		t.Fatalf("expected 3 exhibits, got %d", len(list.Exhibits))
	}
	for i, want := range []string{"A", "B", "C"} {
		if list.Exhibits[i].ExhibitCode != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, list.Exhibits[i].ExhibitCode)
		}
	}
}
