package accounts

import (
	"net/http"
	"time"

	"vetly/internal/domain/users"
	"vetly/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/login", loginHandler(svc))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      users.UserResponse `json:"user"`
}

// loginHandler godoc
// @Summary Login
// @Description Valida credenciales y devuelve un JWT (24h) con userId y email.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 401 {object} web.ErrorBody "Email ou senha inválidos"
// @Router /login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			web.Error(w, r, err)
			return
		}

		web.JSON(w, http.StatusOK, loginResponse{
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
			User:      users.ToResponse(sess.User),
		})
	}
}
