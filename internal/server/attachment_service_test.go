package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dvid0316/evidence-vault/internal/blobstore"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func newAttachmentServiceForTest(t *testing.T, maxBytes int64) (*AttachmentService, *store.Store, string) {
	t.Helper()
	st := newTestStore(t)
	root := filepath.Join(t.TempDir(), "blobs")
	bs, err := blobstore.NewLocalStore(root)
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	return NewAttachmentService(st, bs, maxBytes), st, root
}

func TestAttachmentUploadAndVerify(t *testing.T) {
	svc, st, _ := newAttachmentServiceForTest(t, 0)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Record with an attachment.")

	payload := "scanned page contents"
	resp, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader(payload), "application/pdf", "scan.pdf", testAudit(actor))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	a := resp.Attachment
	if a.SizeBytes != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), a.SizeBytes)
	}
	sum := sha256.Sum256([]byte(payload))
	if a.FileHash != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected hash %s", a.FileHash)
	}

	verify, err := svc.Verify(ctx, a.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verify.Result.Match {
		t.Fatalf("expected match, got %+v", verify.Result)
	}
	if verify.Result.ComputedHash != a.FileHash {
		t.Fatalf("expected computed hash %s, got %s", a.FileHash, verify.Result.ComputedHash)
	}
}

func TestAttachmentVerifyDetectsTampering(t *testing.T) {
	svc, st, root := newAttachmentServiceForTest(t, 0)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Tamper target.")

	resp, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader("authentic bytes"), "text/plain", "original.txt", testAudit(actor))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Overwrite the stored object behind the service's back.
	path := filepath.Join(root, filepath.FromSlash(resp.Attachment.StorageKey))
	if err := os.WriteFile(path, []byte("tampered bytes"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	verify, err := svc.Verify(ctx, resp.Attachment.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verify.Result.Match {
		t.Fatal("expected mismatch after tampering")
	}
	if verify.Result.StoredHash != resp.Attachment.FileHash {
		t.Fatalf("stored hash must be the ingestion hash, got %s", verify.Result.StoredHash)
	}
}

func TestAttachmentVerifyAllIsolatesFailures(t *testing.T) {
	svc, st, root := newAttachmentServiceForTest(t, 0)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Batch verify.")

	good, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader("intact"), "text/plain", "good.txt", testAudit(actor))
	if err != nil {
		t.Fatalf("upload good: %v", err)
	}
	lost, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader("about to vanish"), "text/plain", "lost.txt", testAudit(actor))
	if err != nil {
		t.Fatalf("upload lost: %v", err)
	}

	intact, err := svc.VerifyAll(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("verify all: %v", err)
	}
	if !intact.AllPassed {
		t.Fatalf("expected all_passed before corruption, got %+v", intact)
	}

	path := filepath.Join(root, filepath.FromSlash(lost.Attachment.StorageKey))
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	resp, err := svc.VerifyAll(ctx, rec.Record.ID)
	if err != nil {
		t.Fatalf("verify all: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.AllPassed {
		t.Fatal("expected all_passed to be false with a lost blob")
	}
	byID := map[string]int{}
	for i, r := range resp.Results {
		byID[r.AttachmentID] = i
	}
	if r := resp.Results[byID[good.Attachment.ID]]; !r.Match || r.Error != "" {
		t.Fatalf("expected good attachment to pass, got %+v", r)
	}
	if r := resp.Results[byID[lost.Attachment.ID]]; r.Match || r.Error == "" {
		t.Fatalf("expected lost attachment to fail with error, got %+v", r)
	}
}

func TestAttachmentUploadLimits(t *testing.T) {
	svc, st, _ := newAttachmentServiceForTest(t, 16)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Capped uploads.")

	_, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader(strings.Repeat("y", 17)), "", "", testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeRequestTooLarge)

	// Exactly at the cap is fine.
	resp, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader(strings.Repeat("y", 16)), "", "", testAudit(actor))
	if err != nil {
		t.Fatalf("upload at cap: %v", err)
	}
	if resp.Attachment.MediaType != defaultMediaType {
		t.Fatalf("expected default media type, got %s", resp.Attachment.MediaType)
	}

	_, err = svc.Upload(ctx, rec.Record.ID, strings.NewReader(""), "", "", testAudit(actor))
	wantAPIError(t, err, http.StatusBadRequest, ErrCodeMissingRequired)
}

func TestAttachmentDeleteHidesButRetains(t *testing.T) {
	svc, st, root := newAttachmentServiceForTest(t, 0)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Soft delete target.")

	up, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader("kept for forensics"), "text/plain", "evidence.txt", testAudit(actor))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	del, err := svc.Delete(ctx, up.Attachment.ID, testAudit(actor))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if del.Attachment.Active {
		t.Fatal("expected inactive after delete")
	}

	// The whole read surface treats it as gone, verification included.
	_, err = svc.Get(ctx, up.Attachment.ID)
	wantAPIError(t, err, http.StatusNotFound, ErrCodeAttachmentNotFound)
	_, err = svc.Verify(ctx, up.Attachment.ID)
	wantAPIError(t, err, http.StatusNotFound, ErrCodeAttachmentNotFound)

	// The bytes and the reference hash stay put underneath.
	path := filepath.Join(root, filepath.FromSlash(up.Attachment.StorageKey))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected stored bytes to survive delete: %v", err)
	}
	row, err := st.GetAttachment(ctx, up.Attachment.ID)
	if err != nil {
		t.Fatalf("get row: %v", err)
	}
	if row == nil || row.FileHash != up.Attachment.FileHash {
		t.Fatalf("expected retained hash, got %+v", row)
	}
}

func TestAttachmentOpenMissingBlobUnavailable(t *testing.T) {
	svc, st, root := newAttachmentServiceForTest(t, 0)
	ctx := context.Background()
	actor := mustCreateUser(t, st)
	rec := mustCreateRecord(t, NewRecordService(st), actor, "Blob loss.")

	up, err := svc.Upload(ctx, rec.Record.ID, strings.NewReader("about to vanish"), "text/plain", "gone.txt", testAudit(actor))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	path := filepath.Join(root, filepath.FromSlash(up.Attachment.StorageKey))
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	_, _, err = svc.Open(ctx, up.Attachment.ID)
	wantAPIError(t, err, http.StatusServiceUnavailable, ErrCodeContentStoreFailure)
}

func TestAttachmentUploadUnknownRecord(t *testing.T) {
	svc, st, _ := newAttachmentServiceForTest(t, 0)
	actor := mustCreateUser(t, st)

	_, err := svc.Upload(context.Background(), "rc-zzzz", strings.NewReader("x"), "", "", testAudit(actor))
	wantAPIError(t, err, http.StatusNotFound, ErrCodeRecordNotFound)
}

func TestNormalizeFilenameStripsDirectories(t *testing.T) {
	name, err := normalizeFilename("../../etc/passwd")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if name != "passwd" {
		t.Fatalf("expected base name, got %q", name)
	}
}
