package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// GroupRepository define el puerto de persistencia para Group (DIP).
type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetByName(ctx context.Context, name string) (*entity.Group, error)
	Update(ctx context.Context, group *entity.Group) error
	UpdateDefinition(ctx context.Context, id string, def json.RawMessage) error
	List(ctx context.Context, limit, offset int) ([]*entity.Group, error)
	// ListByIDs devuelve los grupos cuyos IDs están en ids (ids inexistentes se ignoran).
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Group, error)
	// ListChildIDs devuelve los IDs de los hijos directos de cualquiera de parentIDs.
	ListChildIDs(ctx context.Context, parentIDs []string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
