package records

import (
	"time"

	"vetly/internal/domain/animals"
	"vetly/internal/domain/owners"
)

// Record es un atendimento (consulta) de un animal.
type Record struct {
	ID       string
	AnimalID string

	Weight      float64 // kg
	Medications string
	Dosage      string
	Notes       string
	AttendedAt  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail es el prontuario con animal y tutor. Lo usan el GET/listado y el PDF.
type Detail struct {
	Record
	Animal animals.Animal
	Owner  owners.Owner
}
