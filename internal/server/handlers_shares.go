package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dvid0316/evidence-vault/internal/api"
	"github.com/Dvid0316/evidence-vault/internal/models"
)

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}
	var req api.ShareCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.shares.Create(r.Context(), id, req, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordIDPath(w, r)
	if !ok {
		return
	}

	resp, err := s.shares.List(r.Context(), id, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validateShareID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid share id"), ErrCodeInvalidID))
		return
	}

	resp, err := s.shares.Revoke(r.Context(), id, auditFromRequest(r))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PathValue("token"))
	if token == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("token is required"), ErrCodeMissingRequired))
		return
	}

	resp, recordID, err := s.shares.Resolve(r.Context(), token)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	s.audit.LogAccess(r.Context(), recordID, models.AccessShareView, auditFromRequest(r))
	s.writeJSON(w, http.StatusOK, resp)
}
