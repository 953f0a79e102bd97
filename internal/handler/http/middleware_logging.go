package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/avetra/bizsync/internal/logger"
)

// withLogging logs one line per request. Peer traffic (entity polling and
// snapshot streaming) is chatty for the whole duration of a transfer, so it
// logs at debug; operator calls stay at info.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		evt := log.Info()
		if isPeerEndpoint(r) {
			evt = log.Debug()
		}
		evt.
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

func isPeerEndpoint(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/entities") ||
		strings.HasPrefix(r.URL.Path, "/api/snapshot")
}
