package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

func designate(t *testing.T, st *Store, owner, recordID, exhibitID string) *models.Exhibit {
	t.Helper()
	ex, err := st.DesignateExhibit(context.Background(), DesignateExhibitParams{
		ExhibitID:   exhibitID,
		RecordID:    recordID,
		OwnerUserID: owner,
		Now:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("designate: %v", err)
	}
	return ex
}

func TestDesignateExhibitSequence(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)

	var codes []string
	for i := 0; i < 3; i++ {
		rv := seedRecord(t, st, owner, fmt.Sprintf("Evidence item %d.", i))
		ex := designate(t, st, owner, rv.Record.ID, fmt.Sprintf("ex-sq%02d", i))
		codes = append(codes, ex.ExhibitCode)
	}
	if codes[0] != "A" || codes[1] != "B" || codes[2] != "C" {
		t.Fatalf("expected A B C, got %v", codes)
	}
}

func TestExhibitCodesNeverReused(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	now := time.Now().UTC()

	first := seedRecord(t, st, owner, "First item.")
	a := designate(t, st, owner, first.Record.ID, "ex-nr01")
	if a.ExhibitCode != "A" {
		t.Fatalf("expected A, got %s", a.ExhibitCode)
	}

	if _, err := st.RemoveExhibit(ctx, a.ID, owner, "", "", now); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// The freed code must not come back; the counter only moves forward.
	second := seedRecord(t, st, owner, "Second item.")
	b := designate(t, st, owner, second.Record.ID, "ex-nr02")
	if b.ExhibitCode != "B" {
		t.Fatalf("expected B after removing A, got %s", b.ExhibitCode)
	}

	again := designate(t, st, owner, first.Record.ID, "ex-nr03")
	if again.ExhibitCode != "C" {
		t.Fatalf("expected C for re-designation, got %s", again.ExhibitCode)
	}
}

func TestExhibitCountersArePerOwner(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)
	other := seedUser(t, st)

	r1 := seedRecord(t, st, owner, "Owner one evidence.")
	r2 := seedRecord(t, st, other, "Owner two evidence.")

	a := designate(t, st, owner, r1.Record.ID, "ex-po01")
	b := designate(t, st, other, r2.Record.ID, "ex-po02")
	if a.ExhibitCode != "A" || b.ExhibitCode != "A" {
		t.Fatalf("expected independent counters, got %s and %s", a.ExhibitCode, b.ExhibitCode)
	}
}

func TestDesignateExhibitTwice(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Already designated.")

	designate(t, st, owner, rv.Record.ID, "ex-tw01")
	_, err := st.DesignateExhibit(context.Background(), DesignateExhibitParams{
		ExhibitID:   "ex-tw02",
		RecordID:    rv.Record.ID,
		OwnerUserID: owner,
		Now:         time.Now().UTC(),
	})
	if !errors.Is(err, ErrExhibitExists) {
		t.Fatalf("expected ErrExhibitExists, got %v", err)
	}
}

func TestDesignateExhibitNotOwner(t *testing.T) {
	st := testStore(t)
	owner := seedUser(t, st)
	other := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Owned evidence.")

	_, err := st.DesignateExhibit(context.Background(), DesignateExhibitParams{
		ExhibitID:   "ex-no01",
		RecordID:    rv.Record.ID,
		OwnerUserID: other,
		Now:         time.Now().UTC(),
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestRemoveExhibitHistory(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)
	rv := seedRecord(t, st, owner, "Exhibit lifecycle.")

	ex := designate(t, st, owner, rv.Record.ID, "ex-rh01")
	if _, err := st.RemoveExhibit(ctx, ex.ID, owner, "", "", time.Now().UTC()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := st.GetExhibitByRecord(ctx, rv.Record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no exhibit, got %+v", got)
	}

	entries, _ := st.ListHistory(ctx, rv.Record.ID)
	var summaries []string
	for _, e := range entries {
		summaries = append(summaries, e.ChangeSummary)
	}
	want := []string{"Created record", "Designated as Exhibit A", "Removed exhibit designation (was Exhibit A)"}
	if len(summaries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), summaries)
	}
	for i := range want {
		if summaries[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], summaries[i])
		}
	}
}

func TestListExhibitsOrder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, st)

	// Allocate past Z so multi-letter codes exist.
	for i := 0; i < 28; i++ {
		rv := seedRecord(t, st, owner, fmt.Sprintf("Bulk item %d.", i))
		designate(t, st, owner, rv.Record.ID, fmt.Sprintf("ex-b%03d", i))
	}

	list, err := st.ListExhibits(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 28 {
		t.Fatalf("expected 28 exhibits, got %d", len(list))
	}
	if list[0].ExhibitCode != "A" || list[25].ExhibitCode != "Z" {
		t.Fatalf("unexpected single-letter ordering: %s .. %s", list[0].ExhibitCode, list[25].ExhibitCode)
	}
	// "AA" and "AB" sort after every single-letter code.
	if list[26].ExhibitCode != "AA" || list[27].ExhibitCode != "AB" {
		t.Fatalf("expected AA, AB after Z, got %s, %s", list[26].ExhibitCode, list[27].ExhibitCode)
	}
}
