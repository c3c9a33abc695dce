package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/blobstore"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

const (
	defaultMediaType      = "application/octet-stream"
	defaultMaxUploadBytes = 32 << 20 // 32 MiB
	maxFilenameLength     = 255
)

// AttachmentService stores attachment bytes and checks them against the
// hash captured at upload time. The stored hash is the reference: it is
// written once at ingestion and never recomputed into the database.
type AttachmentService struct {
	store    store.AttachmentStore
	blobs    blobstore.ContentStore
	maxBytes int64
}

// NewAttachmentService constructs an AttachmentService. maxBytes <= 0
// selects the default upload cap.
func NewAttachmentService(st store.AttachmentStore, blobs blobstore.ContentStore, maxBytes int64) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &AttachmentService{store: st, blobs: blobs, maxBytes: maxBytes}
}

// Upload streams body into the content store, hashing on the way, and
// registers the attachment against the record.
func (s *AttachmentService) Upload(ctx context.Context, recordID string, body io.Reader, mediaType, filename string, audit AuditContext) (api.AttachmentResponse, error) {
	var resp api.AttachmentResponse

	if err := requireActor(audit); err != nil {
		return resp, err
	}
	if s.blobs == nil {
		return resp, unavailable(fmt.Errorf("content store is not configured"))
	}

	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return resp, err
	}
	filename, err = normalizeFilename(filename)
	if err != nil {
		return resp, err
	}

	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if rv == nil {
		return resp, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}

	// One extra byte past the cap distinguishes "at the limit" from "over".
	limited := io.LimitReader(body, s.maxBytes+1)
	result, err := s.blobs.Put(ctx, limited)
	if err != nil {
		return resp, contentStoreFailure(err)
	}
	if result.SizeBytes > s.maxBytes {
		return resp, badRequestCode(fmt.Errorf("attachment exceeds %d bytes", s.maxBytes), ErrCodeRequestTooLarge)
	}
	if result.SizeBytes == 0 {
		return resp, badRequestCode(fmt.Errorf("attachment body is empty"), ErrCodeMissingRequired)
	}

	id, err := s.store.NewID(ctx, store.AttachmentIDPrefix)
	if err != nil {
		return resp, storeFailure(err)
	}
	attachment := models.Attachment{
		ID:         id,
		RecordID:   recordID,
		MediaType:  mediaType,
		Filename:   filename,
		StorageKey: result.Key,
		FileHash:   result.SHA256,
		SizeBytes:  result.SizeBytes,
		Active:     true,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAttachment(ctx, &attachment, audit.ActorUserID, audit.IPAddress, audit.UserAgent); err != nil {
		return resp, storeError(err)
	}
	return api.AttachmentResponse{Attachment: attachment}, nil
}

// Get returns one active attachment's metadata.
func (s *AttachmentService) Get(ctx context.Context, id string) (api.AttachmentResponse, error) {
	var resp api.AttachmentResponse
	a, err := s.activeAttachment(ctx, id)
	if err != nil {
		return resp, err
	}
	return api.AttachmentResponse{Attachment: *a}, nil
}

// List returns a record's active attachments.
func (s *AttachmentService) List(ctx context.Context, recordID string) (api.AttachmentListResponse, error) {
	var resp api.AttachmentListResponse
	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if rv == nil {
		return resp, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	attachments, err := s.store.ListAttachments(ctx, recordID, false)
	if err != nil {
		return resp, storeFailure(err)
	}
	return api.AttachmentListResponse{RecordID: recordID, Attachments: attachments}, nil
}

// Open returns an active attachment's metadata and a reader over its
// stored bytes, for download.
func (s *AttachmentService) Open(ctx context.Context, id string) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.activeAttachment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.blobs == nil {
		return nil, nil, unavailable(fmt.Errorf("content store is not configured"))
	}
	rc, err := s.blobs.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, contentStoreFailure(err)
	}
	return a, rc, nil
}

// Verify rehashes one active attachment's stored bytes against the hash
// captured at upload. Soft-deleted attachments answer not-found even though
// their bytes are retained.
func (s *AttachmentService) Verify(ctx context.Context, id string) (api.VerifyResponse, error) {
	var resp api.VerifyResponse
	a, err := s.activeAttachment(ctx, id)
	if err != nil {
		return resp, err
	}
	return api.VerifyResponse{Result: s.verifyOne(ctx, a)}, nil
}

// VerifyAll rehashes every active attachment of a record. Each attachment
// is checked in isolation: one unreadable blob yields one failed result,
// never a failed batch.
func (s *AttachmentService) VerifyAll(ctx context.Context, recordID string) (api.VerifyAllResponse, error) {
	var resp api.VerifyAllResponse
	rv, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if rv == nil {
		return resp, notFoundCode(fmt.Errorf("record not found"), ErrCodeRecordNotFound)
	}
	attachments, err := s.store.ListAttachments(ctx, recordID, false)
	if err != nil {
		return resp, storeFailure(err)
	}

	allPassed := true
	results := make([]models.VerifyResult, 0, len(attachments))
	for i := range attachments {
		result := s.verifyOne(ctx, &attachments[i])
		if !result.Match {
			allPassed = false
		}
		results = append(results, result)
	}
	return api.VerifyAllResponse{RecordID: recordID, Results: results, AllPassed: allPassed}, nil
}

// Delete soft-deletes an attachment. Bytes and hash stay put.
func (s *AttachmentService) Delete(ctx context.Context, id string, audit AuditContext) (api.AttachmentResponse, error) {
	var resp api.AttachmentResponse
	if err := requireActor(audit); err != nil {
		return resp, err
	}
	a, err := s.store.SoftDeleteAttachment(ctx, id, audit.ActorUserID,
		audit.IPAddress, audit.UserAgent, time.Now().UTC())
	if err != nil {
		return resp, storeError(err)
	}
	return api.AttachmentResponse{Attachment: *a}, nil
}

func (s *AttachmentService) verifyOne(ctx context.Context, a *models.Attachment) models.VerifyResult {
	result := models.VerifyResult{AttachmentID: a.ID, StoredHash: a.FileHash}
	if s.blobs == nil {
		result.Error = "content store is not configured"
		return result
	}

	rc, err := s.blobs.Open(ctx, a.StorageKey)
	if err != nil {
		result.Error = "stored content unavailable: " + err.Error()
		return result
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		result.Error = "reading stored content: " + err.Error()
		return result
	}
	result.ComputedHash = hex.EncodeToString(h.Sum(nil))
	result.Match = result.ComputedHash == a.FileHash
	return result
}

func (s *AttachmentService) activeAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	a, err := s.store.GetAttachment(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if a == nil || !a.Active {
		return nil, notFoundCode(fmt.Errorf("attachment not found"), ErrCodeAttachmentNotFound)
	}
	return a, nil
}

func normalizeMediaType(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultMediaType, nil
	}
	parsed, _, err := mime.ParseMediaType(value)
	if err != nil {
		return "", badRequest(fmt.Errorf("invalid media type: %s", value))
	}
	return parsed, nil
}

func normalizeFilename(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", nil
	}
	name = filepath.Base(name)
	if len(name) > maxFilenameLength {
		return "", badRequest(fmt.Errorf("filename exceeds %d characters", maxFilenameLength))
	}
	return name, nil
}
