package session

import (
	"context"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
)

type sessionCtxKey struct{}

// NewContext returns a context carrying a session snapshot.
func NewContext(ctx context.Context, sess domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// FromContext returns the session snapshot from ctx. It panics when called
// outside a context the middleware prepared: that is a wiring bug, not a
// runtime condition to handle.
func FromContext(ctx context.Context) domainauth.Session {
	sess, ok := ctx.Value(sessionCtxKey{}).(domainauth.Session)
	if !ok {
		panic("session.FromContext called outside a session-scoped context")
	}
	return sess
}

// FromContextOK is the non-panicking variant of FromContext.
func FromContextOK(ctx context.Context) (domainauth.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(domainauth.Session)
	return sess, ok
}
