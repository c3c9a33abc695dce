package store

import "errors"

// Sentinel errors returned by composite store operations. Services map these
// onto HTTP error codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrNotOwner           = errors.New("actor does not own the record")
	ErrExhibitNotFound    = errors.New("exhibit not found")
	ErrExhibitExists      = errors.New("record is already designated as an exhibit")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrCaseNotFound       = errors.New("case not found")
	ErrShareNotFound      = errors.New("share link not found")
	ErrShareRevoked       = errors.New("share link is already revoked")
)
