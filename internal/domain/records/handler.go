package records

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"vetly/internal/domain/animals"
	"vetly/internal/domain/owners"
	"vetly/internal/middleware"
	"vetly/internal/platform/logger"
	"vetly/internal/platform/patch"
	"vetly/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

// ReportRenderer genera el PDF del prontuario.
type ReportRenderer interface {
	Render(w io.Writer, d Detail) error
	Filename(d Detail) string
}

// ReportObserver recibe el resultado de cada PDF (ok, error, aborted).
type ReportObserver interface {
	ObserveReport(result string, size int)
}

type nopObserver struct{}

func (nopObserver) ObserveReport(string, int) {}

func RegisterRoutes(r chi.Router, svc *Service, renderer ReportRenderer, obs ReportObserver) {
	if obs == nil {
		obs = nopObserver{}
	}
	r.Route("/records", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc))
		rr.Get("/", listRecordsHandler(svc))
		rr.Get("/{id}", getRecordHandler(svc))
		rr.Patch("/{id}", updateRecordHandler(svc))
		rr.Delete("/{id}", deleteRecordHandler(svc))
		rr.Get("/{id}/pdf", recordPDFHandler(svc, renderer, obs))
	})
}

type createRecordRequest struct {
	Weight      *float64 `json:"weight"`
	Medications string   `json:"medications"`
	Dosage      string   `json:"dosage"`
	Notes       string   `json:"notes"`
	AttendedAt  string   `json:"attendedAt"` // RFC3339 o YYYY-MM-DD
	AnimalID    string   `json:"animalId"`
}

type updateRecordRequest struct {
	Weight      patch.Field[float64] `json:"weight" swaggertype:"number"`
	Medications patch.Field[string]  `json:"medications" swaggertype:"string"`
	Dosage      patch.Field[string]  `json:"dosage" swaggertype:"string"`
	Notes       patch.Field[string]  `json:"notes" swaggertype:"string"`
	AttendedAt  patch.Field[string]  `json:"attendedAt" swaggertype:"string"`
	AnimalID    patch.Field[string]  `json:"animalId" swaggertype:"string"`
}

type animalWithOwner struct {
	animals.AnimalResponse
	Owner owners.OwnerResponse `json:"owner"`
}

type RecordResponse struct {
	ID          string           `json:"id"`
	AnimalID    string           `json:"animalId"`
	Weight      float64          `json:"weight"`
	Medications string           `json:"medications"`
	Dosage      string           `json:"dosage"`
	Notes       string           `json:"notes"`
	AttendedAt  time.Time        `json:"attendedAt"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Animal      *animalWithOwner `json:"animal,omitempty"`
}

func toResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:          rec.ID,
		AnimalID:    rec.AnimalID,
		Weight:      rec.Weight,
		Medications: rec.Medications,
		Dosage:      rec.Dosage,
		Notes:       rec.Notes,
		AttendedAt:  rec.AttendedAt,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toDetailResponse(d Detail) RecordResponse {
	out := toResponse(d.Record)
	out.Animal = &animalWithOwner{
		AnimalResponse: animals.ToResponse(d.Animal),
		Owner:          owners.ToResponse(d.Owner),
	}
	return out
}

// createRecordHandler godoc
// @Summary Registrar atendimento
// @Description El animal debe pertenecer (vía tutor) al usuario autenticado.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createRecordRequest true "Dados do atendimento"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody "Animal não encontrado"
// @Router /records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createRecordRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		rec, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Weight:      req.Weight,
			Medications: req.Medications,
			Dosage:      req.Dosage,
			Notes:       req.Notes,
			AttendedAt:  req.AttendedAt,
			AnimalID:    req.AnimalID,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusCreated, toResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar prontuários do usuário
// @Description Incluye animal y tutor de cada prontuario.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RecordResponse
// @Router /records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			web.Error(w, r, err)
			return
		}

		out := make([]RecordResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDetailResponse(d))
		}
		web.JSON(w, http.StatusOK, out)
	}
}

// getRecordHandler godoc
// @Summary Buscar prontuário
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do prontuário"
// @Success 200 {object} RecordResponse
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /records/{id} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		d, err := svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"))
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, toDetailResponse(d))
	}
}

// updateRecordHandler godoc
// @Summary Atualizar prontuário
// @Description Actualización parcial. medications/dosage/notes se limpian con "".
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do prontuário"
// @Param payload body updateRecordRequest true "Campos a alterar"
// @Success 200 {object} RecordResponse
// @Failure 400 {object} web.ErrorBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /records/{id} [patch]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateRecordRequest
		if err := web.Decode(r, &req); err != nil {
			web.Error(w, r, err)
			return
		}

		rec, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), UpdateInput{
			Weight:      req.Weight,
			Medications: req.Medications,
			Dosage:      req.Dosage,
			Notes:       req.Notes,
			AttendedAt:  req.AttendedAt,
			AnimalID:    req.AnimalID,
		})
		if err != nil {
			web.Error(w, r, err)
			return
		}
		web.JSON(w, http.StatusOK, toResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary Excluir prontuário
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do prontuário"
// @Success 200 {object} web.MessageBody
// @Failure 403 {object} web.ErrorBody
// @Failure 404 {object} web.ErrorBody
// @Router /records/{id} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
			web.Error(w, r, err)
			return
		}
		web.Message(w, http.StatusOK, "Registro excluído com sucesso")
	}
}

// recordPDFHandler godoc
// @Summary Baixar prontuário em PDF
// @Description Genera el PDF completo antes de escribir headers; un fallo de escritura posterior solo se loguea.
// @Tags records
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID do prontuário"
// @Success 200 {file} file
// @Failure 404 {object} web.ErrorBody
// @Failure 500 {object} web.ErrorBody
// @Router /records/{id}/pdf [get]
func recordPDFHandler(svc *Service, renderer ReportRenderer, obs ReportObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		id := chi.URLParam(r, "id")

		d, err := svc.Report(r.Context(), claims.UserID, id)
		if err != nil {
			web.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, d); err != nil {
			obs.ObserveReport("error", 0)
			web.Error(w, r, err)
			return
		}
		size := buf.Len()

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+renderer.Filename(d)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(size))
		w.WriteHeader(http.StatusOK)

		if _, err := buf.WriteTo(w); err != nil {
			// los headers ya salieron: no hay cómo responder un error JSON
			obs.ObserveReport("aborted", size)
			logger.FromContext(r.Context(), nil).Error("records.pdf.stream_failed", map[string]any{
				"record_id": id,
				"err":       err,
			})
			return
		}
		obs.ObserveReport("ok", size)
	}
}
