package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1003
	ErrCodeInvalidStatus   = 1004
	ErrCodeMissingRequired = 1005
	ErrCodeInvalidDate     = 1006
	ErrCodeInvalidExpiry   = 1007
	ErrCodeInvalidAction   = 1008
	ErrCodeInvalidName     = 1009

	// Domain state (2xxx)
	ErrCodeRecordNotFound     = 2001
	ErrCodeVersionNotFound    = 2002
	ErrCodeUserNotFound       = 2003
	ErrCodeExhibitNotFound    = 2004
	ErrCodeAttachmentNotFound = 2005
	ErrCodeTagNotFound        = 2006
	ErrCodeCaseNotFound       = 2007
	ErrCodeShareNotFound      = 2008
	ErrCodeExhibitExists      = 2101
	ErrCodeNameExists         = 2102
	ErrCodeShareRevoked       = 2103
	ErrCodeConflict           = 2104

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001
	ErrCodeForbidden    = 3002

	// Internal/system (4xxx)
	ErrCodeInternal            = 4001
	ErrCodeStoreFailure        = 4002
	ErrCodeContentStoreFailure = 4003
	ErrCodeExportFailed        = 4004
	ErrCodeUnavailable         = 4005
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeRecordNotFound
	case 409:
		return ErrCodeConflict
	case 500:
		return ErrCodeInternal
	case 503:
		return ErrCodeUnavailable
	default:
		return 0
	}
}
