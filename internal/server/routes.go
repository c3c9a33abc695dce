package server

import (
	"fmt"
	"net/http"
	"strings"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Records and the version chain.
	mux.HandleFunc("POST /v1/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/records", s.handleListRecords)
	mux.HandleFunc("GET /v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("POST /v1/records/{id}/versions", s.handleEditRecord)
	mux.HandleFunc("GET /v1/records/{id}/versions", s.handleListVersions)
	mux.HandleFunc("GET /v1/records/{id}/versions/{versionID}", s.handleGetVersion)
	mux.HandleFunc("POST /v1/records/{id}/versions/{versionID}/restore", s.handleRestoreVersion)
	mux.HandleFunc("POST /v1/records/{id}/status", s.handleSetStatus)

	// Audit trail.
	mux.HandleFunc("GET /v1/records/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/records/{id}/custody", s.handleCustody)
	mux.HandleFunc("POST /v1/records/{id}/access", s.handleLogAccess)

	// Exhibits.
	mux.HandleFunc("POST /v1/exhibits", s.handleDesignateExhibit)
	mux.HandleFunc("GET /v1/exhibits", s.handleListExhibits)
	mux.HandleFunc("DELETE /v1/exhibits/{id}", s.handleRemoveExhibit)
	mux.HandleFunc("GET /v1/records/{id}/exhibit", s.handleRecordExhibit)

	// Attachments.
	mux.HandleFunc("POST /v1/records/{id}/attachments", s.handleUploadAttachment)
	mux.HandleFunc("GET /v1/records/{id}/attachments", s.handleListAttachments)
	mux.HandleFunc("POST /v1/records/{id}/verify", s.handleVerifyRecord)
	mux.HandleFunc("GET /v1/attachments/{id}", s.handleGetAttachment)
	mux.HandleFunc("GET /v1/attachments/{id}/download", s.handleDownloadAttachment)
	mux.HandleFunc("POST /v1/attachments/{id}/verify", s.handleVerifyAttachment)
	mux.HandleFunc("DELETE /v1/attachments/{id}", s.handleDeleteAttachment)

	// Tags and cases.
	mux.HandleFunc("POST /v1/tags", s.handleCreateTag)
	mux.HandleFunc("GET /v1/tags", s.handleListTags)
	mux.HandleFunc("DELETE /v1/tags/{id}", s.handleDeleteTag)
	mux.HandleFunc("POST /v1/records/{id}/tags/{tagID}", s.handleTagRecord)
	mux.HandleFunc("DELETE /v1/records/{id}/tags/{tagID}", s.handleUntagRecord)
	mux.HandleFunc("POST /v1/cases", s.handleCreateCase)
	mux.HandleFunc("GET /v1/cases", s.handleListCases)
	mux.HandleFunc("GET /v1/cases/{id}", s.handleGetCase)
	mux.HandleFunc("PATCH /v1/cases/{id}", s.handleUpdateCase)
	mux.HandleFunc("POST /v1/records/{id}/case", s.handleAssignCase)
	mux.HandleFunc("DELETE /v1/records/{id}/case", s.handleUnassignCase)

	// Share links.
	mux.HandleFunc("POST /v1/records/{id}/shares", s.handleCreateShare)
	mux.HandleFunc("GET /v1/records/{id}/shares", s.handleListShares)
	mux.HandleFunc("DELETE /v1/shares/{id}", s.handleRevokeShare)
	mux.HandleFunc("GET /v1/shared/{token}", s.handleResolveShare)

	return s.withRequestLogging(s.withAuth(mux))
}

// withAuth gates the API behind a static bearer token when one is
// configured. The health check and share-token resolution stay public:
// share links are handed to people without accounts.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken == "" || isPublicPath(r) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) != s.apiToken {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid or missing bearer token")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isPublicPath(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/shared/")
}
