// Package web agrupa los helpers HTTP compartidos por los handlers de dominio:
// respuesta JSON, decodificación estricta y traducción de errores a status.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vetly/internal/domain"
	"vetly/internal/platform/logger"
)

const msgInternal = "Erro interno do servidor"

// ErrorBody es el cuerpo de toda respuesta de error.
type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message responde {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// ErrorMessage responde {"error": msg} con el status dado.
func ErrorMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// StatusOf traduce un error de dominio a status HTTP.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error escribe {"error": "..."}. Los 500 no exponen la causa; se loguea.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	msg, ok := domain.Message(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context(), nil).Error("request.failed", map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		})
		if !errors.Is(err, domain.ErrUpload) || !ok {
			msg = msgInternal
		}
	} else if !ok {
		msg = http.StatusText(status)
	}

	ErrorMessage(w, status, msg)
}

// Decode lee un único objeto JSON rechazando campos desconocidos.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Validation(domain.MsgInvalidJSON)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Validation(domain.MsgInvalidJSON)
	}
	return nil
}
