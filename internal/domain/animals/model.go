package animals

import "time"

type Animal struct {
	ID      string
	OwnerID string

	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
