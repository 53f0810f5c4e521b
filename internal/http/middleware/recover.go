package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/tendant/channel-keeper/internal/httputil"
)

// Recover creates middleware that recovers from handler panics, logs
// them, and responds 500 so a single bad request cannot kill the
// process.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in handler",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					httputil.Error(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
