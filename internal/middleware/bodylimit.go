package middleware

import (
	"net/http"
)

// DefaultJSONBodyLimit caps JSON request bodies on the portal APIs. Chat
// attachment uploads are mounted outside this middleware and gate
// themselves against the attachment size cap instead.
const DefaultJSONBodyLimit = 1 << 20

type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultJSONBodyLimit
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

// Handler rejects on the declared Content-Length and caps the actual read,
// so chunked requests without a declared length are still bounded.
func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > m.maxSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body too large",
			})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
