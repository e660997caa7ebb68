package repository

import (
	"context"

	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas de usuario.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca por email ya normalizado (minúsculas, sin espacios).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
