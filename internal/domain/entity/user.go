package entity

import "time"

// Estados de una cuenta de usuario.
const (
	UserActive   = "activo"
	UserDisabled = "inactivo"
)

// User cuenta de acceso a la API (administración, jefes de taller, operadores).
type User struct {
	ID           string
	Email        string // único, en minúsculas
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active indica si la cuenta puede iniciar sesión.
func (u *User) Active() bool {
	return u.Status == UserActive
}
