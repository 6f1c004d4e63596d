package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// CORS permite FRONTEND_URL (lista separada por comas, o "*") con credenciales.
func CORS(origins string) func(http.Handler) http.Handler {
	allowed := make([]string, 0)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return handlers.CORS(
		handlers.AllowedOrigins(allowed),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-Id"}),
		handlers.ExposedHeaders([]string{"Content-Disposition", "Retry-After", "X-Request-Id"}),
		handlers.AllowCredentials(),
		handlers.MaxAge(600),
	)
}
