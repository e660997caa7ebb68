package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

const assetColumns = `id, modelo_id, COALESCE(parent_id, ''), nombre, numero_serie, costo_adquisicion,
	definicion, datos_personalizados, created_at, updated_at`

// AssetRepo implementación de AssetRepository sobre PostgreSQL.
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador de persistencia para activos.
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.ModelID, &a.ParentID, &a.Name, &a.SerialNumber, &a.AcquisitionCost,
		&a.Definition, &a.CustomData, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Asset, error) {
	rows, err := r.q.Query(ctx, `SELECT `+assetColumns+` FROM activos `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list activos: %w", err)
	}
	defer rows.Close()
	var out []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activo: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	query := `
		INSERT INTO activos (id, modelo_id, parent_id, nombre, numero_serie, costo_adquisicion,
			definicion, datos_personalizados, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		asset.ID, asset.ModelID, asset.ParentID, asset.Name, asset.SerialNumber, asset.AcquisitionCost,
		asset.Definition, asset.CustomData, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: modelo o activo padre", domain.ErrNotFound)
		}
		return fmt.Errorf("insert activo: %w", err)
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, `SELECT `+assetColumns+` FROM activos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activo: %w", err)
	}
	return a, nil
}

func (r *AssetRepo) Update(ctx context.Context, asset *entity.Asset) error {
	query := `
		UPDATE activos SET modelo_id = $2, parent_id = NULLIF($3, ''), nombre = $4, numero_serie = $5,
			costo_adquisicion = $6, definicion = $7, datos_personalizados = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		asset.ID, asset.ModelID, asset.ParentID, asset.Name, asset.SerialNumber, asset.AcquisitionCost,
		asset.Definition, asset.CustomData, asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: modelo o activo padre", domain.ErrNotFound)
		}
		return fmt.Errorf("update activo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSchema escribe la columna de esquema indicada (definicion o datos_personalizados).
func (r *AssetRepo) UpdateSchema(ctx context.Context, id string, field entity.SchemaField, def json.RawMessage) error {
	column, err := schemaColumn(field, entity.FieldDefinition, entity.FieldCustomData)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE activos SET `+column+` = $2, updated_at = NOW() WHERE id = $1`, id, def)
	if err != nil {
		return fmt.Errorf("update %s activo: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssetRepo) List(ctx context.Context, limit, offset int) ([]*entity.Asset, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, `ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *AssetRepo) ListByModels(ctx context.Context, modelIDs []string) ([]*entity.Asset, error) {
	if len(modelIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `WHERE modelo_id = ANY($1) ORDER BY id`, modelIDs)
}

// ListChildren devuelve los componentes directos de un activo compuesto.
func (r *AssetRepo) ListChildren(ctx context.Context, parentID string) ([]*entity.Asset, error) {
	return r.list(ctx, `WHERE parent_id = $1 ORDER BY id`, parentID)
}

func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM activos WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el activo tiene componentes", domain.ErrConflict)
		}
		return fmt.Errorf("delete activo: %w", err)
	}
	return nil
}
