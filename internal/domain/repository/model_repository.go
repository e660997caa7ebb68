package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// ModelRepository define el puerto de persistencia para Model (DIP).
type ModelRepository interface {
	Create(ctx context.Context, model *entity.Model) error
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	Update(ctx context.Context, model *entity.Model) error
	// UpdateSchema escribe def en la columna field (definicion o especificaciones).
	UpdateSchema(ctx context.Context, id string, field entity.SchemaField, def json.RawMessage) error
	List(ctx context.Context, limit, offset int) ([]*entity.Model, error)
	ListByCategories(ctx context.Context, categoryIDs []string) ([]*entity.Model, error)
	Delete(ctx context.Context, id string) error
}
