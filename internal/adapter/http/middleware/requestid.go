package middleware

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"
)

type ctxKey int

const requestIDKey ctxKey = 0

// RequestIDHeader is the header carrying the request identifier.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a ULID to every request that does not already carry one
// and echoes it back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}

		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request ID, or "" when none was assigned.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
