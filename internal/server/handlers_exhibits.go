package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dvid0316/evidence-vault/internal/api"
)

func (s *Server) handleDesignateExhibit(w http.ResponseWriter, r *http.Request) {
	var req api.ExhibitDesignateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.exhibits.Designate(r.Context(), req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveExhibit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validateExhibitID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid exhibit id"), ErrCodeInvalidID))
		return
	}

	resp, err := s.exhibits.Remove(r.Context(), id, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordExhibit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.exhibits.ForRecord(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListExhibits(w http.ResponseWriter, r *http.Request) {
	audit := auditFromRequest(r)
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		owner = audit.ActorUserID
	}

	resp, err := s.exhibits.List(r.Context(), owner)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
