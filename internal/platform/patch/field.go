// Package patch modela campos opcionales de PATCH/PUT distinguiendo
// "no enviado", "enviado null" y "enviado con valor" (incluido "" o 0).
package patch

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Set   bool // el campo vino en el body
	Null  bool // vino como null
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Of construye un Field presente con valor. Útil en tests y llamadas internas.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null construye un Field presente con valor null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Cleared indica que el cliente pidió vaciar el campo.
func (f Field[T]) Cleared() bool {
	return f.Set && f.Null
}

// Apply escribe el valor en dst si el campo vino; null deja el zero value.
func (f Field[T]) Apply(dst *T) {
	if !f.Set {
		return
	}
	*dst = f.Value
}

// ApplyPtr es para destinos opcionales: null pone nil.
func (f Field[T]) ApplyPtr(dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}
