package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"vetly/internal/platform/logger"
	"vetly/internal/platform/web"
)

// Recover convierte un panic en 500 JSON y lo loguea con el stack.
// http.ErrAbortHandler se re-lanza: es la forma de cortar la conexión.
func Recover(fallback logger.Logger) func(http.Handler) http.Handler {
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

				logger.FromContext(r.Context(), fallback).Error("http.panic", map[string]any{
					"panic":  fmt.Sprint(rec),
					"stack":  string(debug.Stack()),
					"method": r.Method,
					"path":   r.URL.Path,
				})
				web.ErrorMessage(w, http.StatusInternalServerError, "Erro interno do servidor")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
