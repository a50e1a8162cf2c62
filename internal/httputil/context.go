package httputil

import (
	"context"
	"net/http"

	models "wikipress/internal/domain/models/wiki"
)

// Context key type to avoid collisions
type contextKey string

const callerKey contextKey = "caller"

// WithCaller attaches the authenticated caller to the request context.
func WithCaller(r *http.Request, caller models.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// CallerFrom retrieves the caller from a context. Requests that carried no
// credentials resolve to the anonymous caller.
func CallerFrom(ctx context.Context) models.Caller {
	if caller, ok := ctx.Value(callerKey).(models.Caller); ok {
		return caller
	}
	return models.Anonymous
}
