package middleware

import (
	"context"
	"net/http"
	"strings"

	"vetly/internal/platform/web"
	"vetly/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	msgTokenMissing = "Token não fornecido"
	msgTokenInvalid = "Token inválido ou expirado"
)

// RequireAuth exige "Authorization: Bearer <token>" válido. Sin token o con
// token inválido/expirado corta con 401; si pasa, deja las claims en el ctx.
func RequireAuth(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				web.ErrorMessage(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil || claims.UserID == "" {
				web.ErrorMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			setUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims deja la identidad en el ctx (también usado en tests de handlers).
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
