package console

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the administrator session on the context so
// transports can thread identity without widening every call signature.
func ContextWithSession(ctx context.Context, session SessionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext extracts the administrator session, if present.
func SessionFromContext(ctx context.Context) SessionContext {
	if ctx == nil {
		return SessionContext{}
	}
	if session, ok := ctx.Value(sessionContextKey{}).(SessionContext); ok {
		return session
	}
	return SessionContext{}
}
