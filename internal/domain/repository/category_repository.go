package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category y su unión con grupos (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	UpdateDefinition(ctx context.Context, id string, def json.RawMessage) error
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error

	// SetGroups reemplaza el conjunto de grupos vinculados a la categoría.
	SetGroups(ctx context.Context, categoryID string, groupIDs []string) error
	// FindGroupIDsForCategories devuelve las filas de categoria_grupos de las categorías dadas.
	FindGroupIDsForCategories(ctx context.Context, categoryIDs []string) ([]entity.CategoryGroup, error)
	// FindCategoryIDsForGroups devuelve las filas de categoria_grupos de los grupos dados.
	FindCategoryIDsForGroups(ctx context.Context, groupIDs []string) ([]entity.CategoryGroup, error)
}
