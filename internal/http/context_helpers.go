package httpx

import (
	"net/http"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/session"
)

// SessionFromRequest returns the session snapshot attached to the request by
// the WithSession middleware. Requests that bypass the middleware report a
// guest session.
func SessionFromRequest(r *http.Request) domainauth.Session {
	if sess, ok := session.FromContextOK(r.Context()); ok {
		return sess
	}
	return domainauth.Session{}
}

// UserIDFromRequest returns the authenticated identity's UID, or the empty
// string for guests.
func UserIDFromRequest(r *http.Request) string {
	sess := SessionFromRequest(r)
	if sess.Identity == nil {
		return ""
	}
	return sess.Identity.UID
}
