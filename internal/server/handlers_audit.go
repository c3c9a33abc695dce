package server

import (
	"net/http"

	"github.com/Dvid0316/evidence-vault/internal/models"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.audit.History(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCustody(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	doc, err := s.audit.Custody(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLogAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action"`
	}
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	action, err := models.ParseAccessAction(req.Action)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidAction))
		return
	}

	if err := s.records.ensureRecord(r.Context(), id); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	s.audit.LogAccess(r.Context(), id, action, auditFromRequest(r))
	w.WriteHeader(http.StatusNoContent)
}
