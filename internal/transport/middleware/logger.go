package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// callerSlot lets Auth, which runs deeper in the chain, report the caller
// back to the outer logging and recovery middleware.
type callerSlot struct {
	caller domain.Caller
	ok     bool
}

type callerSlotKey struct{}

func withCallerSlot(ctx context.Context) context.Context {
	if _, ok := ctx.Value(callerSlotKey{}).(*callerSlot); ok {
		return ctx
	}
	return context.WithValue(ctx, callerSlotKey{}, &callerSlot{})
}

func recordCaller(ctx context.Context, c domain.Caller) {
	if slot, ok := ctx.Value(callerSlotKey{}).(*callerSlot); ok {
		slot.caller, slot.ok = c, true
	}
}

// requestCaller returns the caller from the context, or the one recorded by
// Auth further down the chain.
func requestCaller(ctx context.Context) (domain.Caller, bool) {
	if c, ok := ctxutil.CallerFromCtx(ctx); ok {
		return c, true
	}
	if slot, ok := ctx.Value(callerSlotKey{}).(*callerSlot); ok && slot.ok {
		return slot.caller, true
	}
	return domain.Caller{}, false
}

// Logger returns middleware that logs each HTTP request with method, path,
// status code, duration, and context identifiers (request_id, user_id, org_id).
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			r = r.WithContext(withCallerSlot(r.Context()))

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			requestID := ctxutil.RequestIDFromCtx(r.Context())
			caller, hasCaller := requestCaller(r.Context())

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", duration),
				slog.String("request_id", requestID),
			}
			if hasCaller {
				attrs = append(attrs,
					slog.String("user_id", caller.UserID.String()),
					slog.String("org_id", caller.OrgID.String()),
				)
			}

			level := slog.LevelInfo
			if sw.status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
