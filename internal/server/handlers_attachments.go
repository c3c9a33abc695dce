package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

func (s *Server) attachmentIDPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !validateAttachmentID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid attachment id"), ErrCodeInvalidID))
		return "", false
	}
	return id, true
}

// handleUploadAttachment ingests a raw request body. Media type comes from
// Content-Type, the filename from the ?filename query parameter.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.Upload(r.Context(), id, r.Body,
		r.Header.Get("Content-Type"), r.URL.Query().Get("filename"), auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.List(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.attachmentIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.Get(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.attachmentIDPath(w, r)
	if !ok {
		return
	}

	attachment, rc, err := s.attachments.Open(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	defer rc.Close()

	s.audit.LogAccess(r.Context(), attachment.RecordID, models.AccessDownload, auditFromRequest(r))

	w.Header().Set("Content-Type", attachment.MediaType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.SizeBytes, 10))
	if attachment.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.log().Error("stream attachment", "attachment_id", id, "error", err)
	}
}

func (s *Server) handleVerifyAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.attachmentIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.Verify(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.VerifyAll(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.attachmentIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.attachments.Delete(r.Context(), id, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
