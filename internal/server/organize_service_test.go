package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
)

func TestCreateTagNormalizesName(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	resp, err := organize.CreateTag(ctx, api.TagCreateRequest{Name: "  Privileged  "}, testAudit(actor))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Tag.Name != "privileged" {
		t.Fatalf("expected lowercased name, got %q", resp.Tag.Name)
	}
	if resp.Tag.Color != models.DefaultTagColor {
		t.Fatalf("expected default color, got %s", resp.Tag.Color)
	}

	// Case-insensitive duplicate conflicts.
	_, err = organize.CreateTag(ctx, api.TagCreateRequest{Name: "PRIVILEGED"}, testAudit(actor))
	wantAPIError(t, err, http.StatusConflict, ErrCodeNameExists)
}

func TestCreateTagValidatesColor(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	actor := mustCreateUser(t, st)

	bad := "red"
	_, err := organize.CreateTag(context.Background(), api.TagCreateRequest{Name: "colored", Color: &bad}, testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeInvalidArgument)

	good := "#AB12CD"
	resp, err := organize.CreateTag(context.Background(), api.TagCreateRequest{Name: "colored", Color: &good}, testAudit(actor))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Tag.Color != "#ab12cd" {
		t.Fatalf("expected lowercased color, got %s", resp.Tag.Color)
	}
}

func TestTagRecordLifecycle(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	records := NewRecordService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	rec := mustCreateRecord(t, records, actor, "Taggable.")
	tag, err := organize.CreateTag(ctx, api.TagCreateRequest{Name: "chain-of-custody"}, testAudit(actor))
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	if err := organize.TagRecord(ctx, rec.Record.ID, tag.Tag.ID, testAudit(actor)); err != nil {
		t.Fatalf("tag: %v", err)
	}
	got, err := records.Get(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "chain-of-custody" {
		t.Fatalf("expected tag on record, got %+v", got.Tags)
	}

	if err := organize.UntagRecord(ctx, rec.Record.ID, tag.Tag.ID, testAudit(actor)); err != nil {
		t.Fatalf("untag: %v", err)
	}
	got, _ = records.Get(ctx, rec.Record.ID)
	if len(got.Tags) != 0 {
		t.Fatalf("expected no tags, got %+v", got.Tags)
	}
}

func TestTagRecordForeignTag(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	actor := mustCreateUser(t, st)
	other := mustCreateUser(t, st)
	ctx := context.Background()

	rec := mustCreateRecord(t, NewRecordService(st), actor, "Mine.")
	foreign, err := organize.CreateTag(ctx, api.TagCreateRequest{Name: "theirs"}, testAudit(other))
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	// Foreign tags read as missing, never as forbidden.
	err = organize.TagRecord(ctx, rec.Record.ID, foreign.Tag.ID, testAudit(actor))
	wantAPIError(t, err, http.StatusNotFound, ErrCodeTagNotFound)
}

func TestCaseLifecycle(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	records := NewRecordService(st)
	actor := mustCreateUser(t, st)
	ctx := context.Background()

	number := "26-CV-0042"
	created, err := organize.CreateCase(ctx, api.CaseCreateRequest{Name: "Harmon v. Tate", CaseNumber: &number}, testAudit(actor))
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	if !created.Case.IsActive || created.Case.CaseNumber != number {
		t.Fatalf("unexpected case: %+v", created.Case)
	}

	rec := mustCreateRecord(t, records, actor, "Filing.")
	if err := organize.AssignCase(ctx, rec.Record.ID, api.CaseAssignRequest{CaseID: created.Case.ID}, testAudit(actor)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, _ := records.Get(ctx, rec.Record.ID)
	if got.Record.CaseID != created.Case.ID {
		t.Fatalf("expected case assigned, got %q", got.Record.CaseID)
	}

	closed := false
	updated, err := organize.UpdateCase(ctx, created.Case.ID, api.CaseUpdateRequest{IsActive: &closed}, testAudit(actor))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Case.IsActive {
		t.Fatal("expected case closed")
	}

	if err := organize.UnassignCase(ctx, rec.Record.ID, testAudit(actor)); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	got, _ = records.Get(ctx, rec.Record.ID)
	if got.Record.CaseID != "" {
		t.Fatalf("expected no case, got %q", got.Record.CaseID)
	}
}

func TestGetCaseHiddenFromOthers(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	owner := mustCreateUser(t, st)
	other := mustCreateUser(t, st)
	ctx := context.Background()

	created, err := organize.CreateCase(ctx, api.CaseCreateRequest{Name: "Sealed matter"}, testAudit(owner))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = organize.GetCase(ctx, created.Case.ID, testAudit(other))
	wantAPIError(t, err, http.StatusNotFound, ErrCodeCaseNotFound)
}

func TestAssignCaseValidatesID(t *testing.T) {
	st := newTestStore(t)
	organize := NewOrganizeService(st)
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Bad case id.")

	err := organize.AssignCase(context.Background(), rec.Record.ID, api.CaseAssignRequest{CaseID: "nope"}, testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeInvalidID)
}
