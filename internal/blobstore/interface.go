package blobstore

import (
	"context"
	"io"
)

// PutResult describes one persisted content object.
type PutResult struct {
	SHA256    string
	SizeBytes int64
	Key       string
}

// ContentStore persists immutable attachment bytes and serves them back by
// key. There is deliberately no delete operation: attachment removal is a
// soft-delete and stored bytes are retained for forensic verification.
type ContentStore interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
