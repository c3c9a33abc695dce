package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

// newTestStore creates a temporary store for service tests.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

var userSeq int

// mustCreateUser inserts an enabled user and returns its id.
func mustCreateUser(t *testing.T, st *store.Store) string {
	t.Helper()
	userSeq++
	id := fmt.Sprintf("us-%04d", userSeq)
	u := &store.User{
		ID:           id,
		Username:     fmt.Sprintf("svcuser%d", userSeq),
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func testAudit(actor string) AuditContext {
	return AuditContext{ActorUserID: actor, IPAddress: "127.0.0.1", UserAgent: "test"}
}

// mustCreateRecord creates a record through the service as the given actor.
func mustCreateRecord(t *testing.T, svc *RecordService, actor, content string) api.RecordResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), api.RecordCreateRequest{ContentText: content}, testAudit(actor))
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return resp
}

func wantAPIError(t *testing.T, err error, status, numericCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := httpStatusFromError(err); got != status {
		t.Fatalf("expected HTTP %d, got %d (%v)", status, got, err)
	}
	var apiErr apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apiError, got %T: %v", err, err)
	}
	if apiErr.errCode != numericCode {
		t.Fatalf("expected error_code %d, got %d (%v)", numericCode, apiErr.errCode, err)
	}
}
