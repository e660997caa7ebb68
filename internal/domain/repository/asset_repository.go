package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// AssetRepository define el puerto de persistencia para Asset (DIP).
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	Update(ctx context.Context, asset *entity.Asset) error
	// UpdateSchema escribe def en la columna field (definicion o datosPersonalizados).
	UpdateSchema(ctx context.Context, id string, field entity.SchemaField, def json.RawMessage) error
	List(ctx context.Context, limit, offset int) ([]*entity.Asset, error)
	ListByModels(ctx context.Context, modelIDs []string) ([]*entity.Asset, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Asset, error)
	Delete(ctx context.Context, id string) error
}
