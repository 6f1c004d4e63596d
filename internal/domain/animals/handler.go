package animals

import (
	"net/http"
	"time"

	"vetly/internal/middleware"
	"vetly/internal/platform/patch"
	"vetly/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{id}", getAnimalHandler(svc))
		ar.Patch("/{id}", updateAnimalHandler(svc))
		ar.Delete("/{id}", deleteAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD o RFC3339
	OwnerID   string `json:"ownerId"`
}

type updateAnimalRequest struct {
	Name      patch.Field[string] `json:"name" swaggertype:"string"`
	Species   patch.Field[string] `json:"species" swaggertype:"string"`
	Breed     patch.Field[string] `json:"breed" swaggertype:"string"`
	BirthDate patch.Field[string] `json:"birthDate" swaggertype:"string"`
	OwnerID   patch.Field[string] `json:"ownerId" swaggertype:"string"`
}

type AnimalResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed"`
	BirthDate *time.Time `json:"birthDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func ToResponse(a Animal) AnimalResponse {
	return AnimalResponse{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Name:      a.Name,
		Species:   a.Species,
		Breed:     a.Breed,
		BirthDate: a.BirthDate,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// createAnimalHandler godoc
// @Summary Cadastrar animal
// @Description El tutor (ownerId) debe pertenecer al usuario autenticado. birthDate no puede ser futura.
// @Tags animals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createAnimalRequest true "Dados do animal"
// @Success 201 {object} AnimalResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody "Dono não encontrado"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createAnimalRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: req.BirthDate,
			OwnerID:   req.OwnerID,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusCreated, ToResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animais do usuário
// @Tags animals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AnimalResponse
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			web.Error(w, r, err)
			return
		}

		out := make([]AnimalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, ToResponse(a))
		}
		web.JSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Buscar animal
// @Tags animals
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do animal"
// @Success 200 {object} AnimalResponse
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /animals/{id} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"))
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Atualizar animal
// @Description Actualización parcial. breed/birthDate se limpian con "" o null.
// @Tags animals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do animal"
// @Param payload body updateAnimalRequest true "Campos a alterar"
// @Success 200 {object} AnimalResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /animals/{id} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateAnimalRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		a, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: req.BirthDate,
			OwnerID:   req.OwnerID,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, ToResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Excluir animal
// @Tags animals
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do animal"
// @Success 200 {object} web.MessageBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /animals/{id} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
			web.Error(w, r, err)
			return
		}
		web.Message(w, http.StatusOK, "Animal excluído com sucesso")
	}
}
