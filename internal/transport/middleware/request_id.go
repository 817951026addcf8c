package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

// RequestIDHeader is the header the request id is read from and echoed to.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that ensures every request carries an id:
// an incoming header value is reused, otherwise a fresh UUID is generated.
// The id is stored in the context and echoed in the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
