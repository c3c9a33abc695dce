package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func (s *Server) recordIDPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !validateRecordID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid record id"), ErrCodeInvalidID))
		return "", false
	}
	return id, true
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req api.RecordCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.records.Create(r.Context(), req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.records.Get(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	s.audit.LogAccess(r.Context(), id, models.AccessView, auditFromRequest(r))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	audit := auditFromRequest(r)
	q := r.URL.Query()

	owner := strings.TrimSpace(q.Get("owner"))
	if owner == "" {
		owner = audit.ActorUserID
	}
	if !validateUserID(owner) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("owner is required"), ErrCodeMissingRequired))
		return
	}

	filter := store.RecordFilter{
		OwnerUserID: owner,
		Search:      strings.TrimSpace(q.Get("q")),
		SortAsc:     q.Get("sort") == "asc",
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseRecordStatus(raw)
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidStatus))
			return
		}
		filter.Status = status
	}
	if caseID := strings.TrimSpace(q.Get("case")); caseID != "" {
		if caseID == "none" {
			filter.NoCase = true
		} else if validateCaseID(caseID) {
			filter.CaseID = caseID
		} else {
			s.writeErrorReq(w, r, http.StatusBadRequest,
				badRequestCode(fmt.Errorf("invalid case filter"), ErrCodeInvalidID))
			return
		}
	}
	if tagID := strings.TrimSpace(q.Get("tag")); tagID != "" {
		if !validateTagID(tagID) {
			s.writeErrorReq(w, r, http.StatusBadRequest,
				badRequestCode(fmt.Errorf("invalid tag filter"), ErrCodeInvalidID))
			return
		}
		filter.TagID = tagID
	}

	resp, err := s.records.List(r.Context(), filter)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	var req api.RecordEditRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.records.Edit(r.Context(), id, req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	status := http.StatusCreated
	if !resp.Created {
		status = http.StatusOK
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.records.Versions(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	versionID := r.PathValue("versionID")
	if !validateVersionID(versionID) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid version id"), ErrCodeInvalidID))
		return
	}

	version, err := s.records.Version(r.Context(), id, versionID)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, version)
}

func (s *Server) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	versionID := r.PathValue("versionID")
	if !validateVersionID(versionID) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid version id"), ErrCodeInvalidID))
		return
	}

	resp, err := s.records.Restore(r.Context(), id, versionID, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	var req api.RecordStatusRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.records.SetStatus(r.Context(), id, req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
