package users

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"vetly/internal/domain"
	"vetly/internal/middleware"
	"vetly/internal/platform/patch"
	"vetly/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

const imageField = "image"

// RegisterInput es el alta pública de usuario (POST /users).
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Registrar crea usuarios con contraseña hasheada. Lo implementa accounts.Service.
type Registrar interface {
	Register(ctx context.Context, in RegisterInput) (User, error)
}

// RegisterRoutes monta /users. El alta es pública; el resto pasa por guard.
func RegisterRoutes(r chi.Router, svc *Service, reg Registrar, guard func(http.Handler) http.Handler) {
	r.Route("/users", func(ur chi.Router) {
		ur.Post("/", registerHandler(reg))

		ur.Group(func(pr chi.Router) {
			pr.Use(guard)
			pr.Get("/", listUsersHandler(svc))
			pr.Get("/{id}", getUserHandler(svc))
			pr.Put("/{id}", updateUserHandler(svc))
			pr.Delete("/{id}", deleteUserHandler(svc))
			pr.Post("/{id}/image", uploadImageHandler(svc))
		})
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name  patch.Field[string] `json:"name" swaggertype:"string"`
	Email patch.Field[string] `json:"email" swaggertype:"string"`
}

// UserResponse es la vista pública de User (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// registerHandler godoc
// @Summary Cadastrar usuário
// @Description Crea un usuario con contraseña hasheada (bcrypt). Email único.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos del usuario"
// @Success 201 {object} UserResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 409 {object} web.ErrorBody "email já cadastrado"
// @Router /users [post]
func registerHandler(reg Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		u, err := reg.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}

		web.JSON(w, http.StatusCreated, ToResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuários
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} web.ErrorBody
// @Router /users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			web.Error(w, r, err)
			return
		}

		out := make([]UserResponse, 0, len(items))
		for _, u := range items {
			out = append(out, ToResponse(u))
		}
		web.JSON(w, http.StatusOK, out)
	}
}

// getUserHandler godoc
// @Summary Buscar usuário
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} UserResponse
// @Failure 404 {object} web.ErrorBody
// @Router /users/{id} [get]
func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// updateUserHandler godoc
// @Summary Atualizar usuário
// @Description Actualización parcial (name/email). Solo el propio usuario.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param payload body updateUserRequest true "Campos a alterar"
// @Success 200 {object} UserResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Failure 409 {object} web.ErrorBody
// @Router /users/{id} [put]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateUserRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		u, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), UpdateInput{
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// deleteUserHandler godoc
// @Summary Excluir usuário
// @Description Borra el usuario y en cascada sus tutores, animales y prontuarios.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 200 {object} web.MessageBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /users/{id} [delete]
func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
			web.Error(w, r, err)
			return
		}
		web.Message(w, http.StatusOK, "O usuário foi excluído com sucesso")
	}
}

// uploadImageHandler godoc
// @Summary Enviar foto de perfil
// @Description Multipart con campo "image" (image/*, máx. 5MB). Se sube al storage y se guarda la URL.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param image formData file true "Imagem"
// @Success 200 {object} UserResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Failure 500 {object} web.ErrorBody
// @Router /users/{id}/image [post]
func uploadImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		img, err := readImagePart(w, r, svc.MaxImageBytes())
		if err != nil {
			web.Error(w, r, err)
			return
		}

		u, err := svc.UploadImage(r.Context(), claims.UserID, chi.URLParam(r, "id"), img)
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// readImagePart lee la parte "image" del multipart sin cargar más de limit+1 bytes.
func readImagePart(w http.ResponseWriter, r *http.Request, limit int64) (Image, error) {
	// margen para boundaries y headers de las partes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	mr, err := r.MultipartReader()
	if err != nil {
		return Image{}, domain.Validation(MsgImageMissing)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return Image{}, domain.Validation(MsgImageMissing)
		}
		if err != nil {
			return Image{}, tooLargeOr(err, MsgImageMissing)
		}
		if part.FormName() != imageField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		_ = part.Close()
		if err != nil {
			return Image{}, tooLargeOr(err, MsgImageMissing)
		}
		if err := r.Context().Err(); err != nil {
			return Image{}, err
		}
		if int64(len(data)) > limit {
			return Image{}, domain.Validation(MsgImageTooLarge)
		}

		ct := part.Header.Get("Content-Type")
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			ct = mt
		}
		return Image{Filename: part.FileName(), ContentType: ct, Data: data}, nil
	}
}

func tooLargeOr(err error, msg string) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return domain.Validation(MsgImageTooLarge)
	}
	return domain.Validation(msg)
}
