package users

import "time"

// User es la cuenta del veterinario/clínica. PasswordHash nunca sale por la API.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ImageURL     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Image es el archivo ya leído del multipart, acotado por el límite de upload.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}
