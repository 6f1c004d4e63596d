package owners

import (
	"net/http"
	"time"

	"vetly/internal/middleware"
	"vetly/internal/platform/patch"
	"vetly/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /owners. Se espera que r ya tenga el guard de auth.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners", func(or chi.Router) {
		or.Post("/", createOwnerHandler(svc))
		or.Get("/", listOwnersHandler(svc))
		or.Get("/{id}", getOwnerHandler(svc))
		or.Patch("/{id}", updateOwnerHandler(svc))
		or.Delete("/{id}", deleteOwnerHandler(svc))
	})
}

type createOwnerRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

type updateOwnerRequest struct {
	Name         patch.Field[string] `json:"name" swaggertype:"string"`
	Phone        patch.Field[string] `json:"phone" swaggertype:"string"`
	Email        patch.Field[string] `json:"email" swaggertype:"string"`
	Street       patch.Field[string] `json:"street" swaggertype:"string"`
	Number       patch.Field[string] `json:"number" swaggertype:"string"`
	Complement   patch.Field[string] `json:"complement" swaggertype:"string"`
	Neighborhood patch.Field[string] `json:"neighborhood" swaggertype:"string"`
	City         patch.Field[string] `json:"city" swaggertype:"string"`
	State        patch.Field[string] `json:"state" swaggertype:"string"`
	ZipCode      patch.Field[string] `json:"zipCode" swaggertype:"string"`
}

// OwnerResponse también se usa anidado en animals y records.
type OwnerResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Complement   string    `json:"complement"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToResponse(o Owner) OwnerResponse {
	return OwnerResponse{
		ID:           o.ID,
		UserID:       o.UserID,
		Name:         o.Name,
		Phone:        o.Phone,
		Email:        o.Email,
		Street:       o.Street,
		Number:       o.Number,
		Complement:   o.Complement,
		Neighborhood: o.Neighborhood,
		City:         o.City,
		State:        o.State,
		ZipCode:      o.ZipCode,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// createOwnerHandler godoc
// @Summary Cadastrar tutor
// @Description El tutor queda asociado al usuario del token.
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createOwnerRequest true "Dados do tutor"
// @Success 201 {object} OwnerResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 401 {object} web.ErrorBody
// @Router /owners [post]
func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createOwnerRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		o, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
			Address: Address{
				Street:       req.Street,
				Number:       req.Number,
				Complement:   req.Complement,
				Neighborhood: req.Neighborhood,
				City:         req.City,
				State:        req.State,
				ZipCode:      req.ZipCode,
			},
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusCreated, ToResponse(o))
	}
}

// listOwnersHandler godoc
// @Summary Listar tutores do usuário
// @Tags owners
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OwnerResponse
// @Router /owners [get]
func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			web.Error(w, r, err)
			return
		}

		out := make([]OwnerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, ToResponse(o))
		}
		web.JSON(w, http.StatusOK, out)
	}
}

// getOwnerHandler godoc
// @Summary Buscar tutor
// @Tags owners
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do tutor"
// @Success 200 {object} OwnerResponse
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /owners/{id} [get]
func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		o, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"))
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(o))
	}
}

// updateOwnerHandler godoc
// @Summary Atualizar tutor
// @Description Actualización parcial: solo se tocan los campos enviados. name/phone no pueden vaciarse.
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do tutor"
// @Param payload body updateOwnerRequest true "Campos a alterar"
// @Success 200 {object} OwnerResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /owners/{id} [patch]
func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateOwnerRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		o, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), UpdateInput{
			Name:         req.Name,
			Phone:        req.Phone,
			Email:        req.Email,
			Street:       req.Street,
			Number:       req.Number,
			Complement:   req.Complement,
			Neighborhood: req.Neighborhood,
			City:         req.City,
			State:        req.State,
			ZipCode:      req.ZipCode,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(o))
	}
}

// deleteOwnerHandler godoc
// @Summary Excluir tutor
// @Description Borra el tutor con sus animales y prontuarios.
// @Tags owners
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do tutor"
// @Success 200 {object} web.MessageBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /owners/{id} [delete]
func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
			web.Error(w, r, err)
			return
		}
		web.Message(w, http.StatusOK, "Dono excluído com sucesso")
	}
}
