package owners

import "time"

// Owner es el tutor del animal. Pertenece a un User (UserID).
type Owner struct {
	ID     string
	UserID string

	Name  string
	Phone string
	Email string

	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
