package domain

import (
	"errors"
	"fmt"
)

// Tipos de error del dominio. Los handlers los traducen a status HTTP en platform/web.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUpload             = errors.New("upload error")
)

// Error lleva el tipo (Kind), el mensaje que ve el cliente y la causa opcional.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permite errors.Is tanto contra el Kind como contra la causa.
func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) error { return newError(ErrValidation, msg, nil) }

func InvalidCredentials(msg string) error { return newError(ErrInvalidCredentials, msg, nil) }

func Unauthorized(msg string) error { return newError(ErrUnauthorized, msg, nil) }

func Forbidden(msg string) error { return newError(ErrForbidden, msg, nil) }

func NotFound(msg string) error { return newError(ErrNotFound, msg, nil) }

func Conflict(msg string) error { return newError(ErrConflict, msg, nil) }

func Upload(msg string, cause error) error { return newError(ErrUpload, msg, cause) }

// Message devuelve el mensaje pensado para el cliente, si el error lo tiene.
func Message(err error) (string, bool) {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message, true
	}
	return "", false
}

// Mensajes compartidos entre módulos.
const (
	MsgUserNotFound   = "Usuário não encontrado"
	MsgOwnerNotFound  = "Dono não encontrado"
	MsgAnimalNotFound = "Animal não encontrado"
	MsgRecordNotFound = "Prontuário não encontrado"
	MsgForbidden      = "Você não tem permissão para acessar este recurso"
	MsgInvalidJSON    = "JSON inválido"
)
