package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

const actorHeader = "X-Actor-Id"

// AuditContext identifies who performed a request and from where. It is
// passed explicitly into every operation that writes or appends history,
// never smuggled through ambient state.
type AuditContext struct {
	ActorUserID string
	IPAddress   string
	UserAgent   string
}

func auditFromRequest(r *http.Request) AuditContext {
	return AuditContext{
		ActorUserID: strings.TrimSpace(r.Header.Get(actorHeader)),
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
	}
}

// requireActor checks that a mutating request names a well-formed actor.
func requireActor(audit AuditContext) error {
	if audit.ActorUserID == "" {
		return unauthorized(fmt.Errorf("actor is required: set %s", actorHeader))
	}
	if !validateUserID(audit.ActorUserID) {
		return badRequestCode(fmt.Errorf("invalid actor id"), ErrCodeInvalidID)
	}
	return nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
