package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dvid0316/evidence-vault/internal/api"
)

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req api.TagCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.organize.CreateTag(r.Context(), req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	audit := auditFromRequest(r)
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		owner = audit.ActorUserID
	}

	resp, err := s.organize.ListTags(r.Context(), owner)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validateTagID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid tag id"), ErrCodeInvalidID))
		return
	}

	if err := s.organize.DeleteTag(r.Context(), id, auditFromRequest(r)); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tagPairPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	recordID, ok := s.recordIDPath(w, r)
	if !ok {
		return "", "", false
	}
	tagID := r.PathValue("tagID")
	if !validateTagID(tagID) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid tag id"), ErrCodeInvalidID))
		return "", "", false
	}
	return recordID, tagID, true
}

func (s *Server) handleTagRecord(w http.ResponseWriter, r *http.Request) {
	recordID, tagID, ok := s.tagPairPath(w, r)
	if !ok {
		return
	}

	if err := s.organize.TagRecord(r.Context(), recordID, tagID, auditFromRequest(r)); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUntagRecord(w http.ResponseWriter, r *http.Request) {
	recordID, tagID, ok := s.tagPairPath(w, r)
	if !ok {
		return
	}

	if err := s.organize.UntagRecord(r.Context(), recordID, tagID, auditFromRequest(r)); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req api.CaseCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.organize.CreateCase(r.Context(), req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	audit := auditFromRequest(r)
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		owner = audit.ActorUserID
	}

	resp, err := s.organize.ListCases(r.Context(), owner)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) caseIDPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !validateCaseID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid case id"), ErrCodeInvalidID))
		return "", false
	}
	return id, true
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.caseIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.organize.GetCase(r.Context(), id, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.caseIDPath(w, r)
	if !ok {
		return
	}
	var req api.CaseUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.organize.UpdateCase(r.Context(), id, req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignCase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	var req api.CaseAssignRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if err := s.organize.AssignCase(r.Context(), id, req, auditFromRequest(r)); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassignCase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	if err := s.organize.UnassignCase(r.Context(), id, auditFromRequest(r)); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
