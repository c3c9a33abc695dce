package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
)

func TestLocalStorePutOpen(t *testing.T) {
	cs, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	payload := []byte("signed affidavit, page one")
	want := sha256.Sum256(payload)

	first, err := cs.Put(context.Background(), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put first: %v", err)
	}
	if first.SHA256 != hex.EncodeToString(want[:]) {
		t.Fatalf("expected digest %x, got %s", want, first.SHA256)
	}
	if first.SizeBytes != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), first.SizeBytes)
	}

	// Identical bytes resolve to the same object.
	second, err := cs.Put(context.Background(), bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put second: %v", err)
	}
	if second.Key != first.Key || second.SHA256 != first.SHA256 {
		t.Fatalf("expected identical object: first=%#v second=%#v", first, second)
	}

	rc, err := cs.Open(context.Background(), first.Key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("expected %q, got %q", payload, data)
	}
}

func TestLocalStoreOpenMissing(t *testing.T) {
	cs, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	if _, err := cs.Open(context.Background(), "sha256/ab/cd/abcd"); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestLocalStoreRejectsBadKeys(t *testing.T) {
	cs, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	for _, key := range []string{"", "/etc/passwd", "../outside", "sha256/../../x"} {
		if _, err := cs.Open(context.Background(), key); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}
