package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// Recovery returns middleware that turns a handler panic into a 500 JSON
// error. The panic is logged with its stack, the request id and, when known,
// the caller.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
				}
				if caller, ok := requestCaller(r.Context()); ok {
					attrs = append(attrs,
						slog.String("user_id", caller.UserID.String()),
						slog.String("org_id", caller.OrgID.String()),
					)
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
