package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"vetly/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestInfo lo completan middlewares internos (RequireAuth) para que la
// línea de log del request tenga el user_id.
type requestInfo struct {
	mu     sync.Mutex
	userID string
}

const infoKey ctxKey = "request_info"

func setUserID(ctx context.Context, id string) {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.mu.Lock()
		info.userID = id
		info.mu.Unlock()
	}
}

// RequestLogger va después de chimw.RequestID: deja en el ctx un logger con
// request_id y emite una línea "http.request" al terminar.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := base.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})
			info := &requestInfo{}
			ctx := logger.WithContext(r.Context(), l)
			ctx = context.WithValue(ctx, infoKey, info)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}
			info.mu.Lock()
			if info.userID != "" {
				fields["user_id"] = info.userID
			}
			info.mu.Unlock()

			if status >= http.StatusInternalServerError {
				l.Error("http.request", fields)
				return
			}
			l.Info("http.request", fields)
		})
	}
}
