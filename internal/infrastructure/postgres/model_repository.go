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

var _ repository.ModelRepository = (*ModelRepo)(nil)

const modelColumns = `id, categoria_id, nombre, fabricante, definicion, especificaciones, created_at, updated_at`

// ModelRepo implementación de ModelRepository sobre PostgreSQL.
type ModelRepo struct {
	q Querier
}

// NewModelRepository construye el adaptador de persistencia para modelos.
func NewModelRepository(q Querier) *ModelRepo {
	return &ModelRepo{q: q}
}

func scanModel(row pgx.Row) (*entity.Model, error) {
	var m entity.Model
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Manufacturer, &m.Definition, &m.Specifications, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectModels(rows pgx.Rows) ([]*entity.Model, error) {
	defer rows.Close()
	var out []*entity.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan modelo: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ModelRepo) Create(ctx context.Context, model *entity.Model) error {
	query := `
		INSERT INTO modelos (id, categoria_id, nombre, fabricante, definicion, especificaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		model.ID, model.CategoryID, model.Name, model.Manufacturer,
		model.Definition, model.Specifications, model.CreatedAt, model.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, model.CategoryID)
		}
		return fmt.Errorf("insert modelo: %w", err)
	}
	return nil
}

func (r *ModelRepo) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	m, err := scanModel(r.q.QueryRow(ctx, `SELECT `+modelColumns+` FROM modelos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get modelo: %w", err)
	}
	return m, nil
}

func (r *ModelRepo) Update(ctx context.Context, model *entity.Model) error {
	query := `
		UPDATE modelos SET categoria_id = $2, nombre = $3, fabricante = $4, definicion = $5, especificaciones = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		model.ID, model.CategoryID, model.Name, model.Manufacturer, model.Definition, model.Specifications, model.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, model.CategoryID)
		}
		return fmt.Errorf("update modelo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSchema escribe la columna de esquema indicada.
func (r *ModelRepo) UpdateSchema(ctx context.Context, id string, field entity.SchemaField, def json.RawMessage) error {
	column, err := schemaColumn(field, entity.FieldDefinition, entity.FieldSpecifications)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE modelos SET `+column+` = $2, updated_at = NOW() WHERE id = $1`, id, def)
	if err != nil {
		return fmt.Errorf("update %s modelo: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ModelRepo) List(ctx context.Context, limit, offset int) ([]*entity.Model, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, `SELECT `+modelColumns+` FROM modelos ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list modelos: %w", err)
	}
	return collectModels(rows)
}

func (r *ModelRepo) ListByCategories(ctx context.Context, categoryIDs []string) ([]*entity.Model, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+modelColumns+` FROM modelos WHERE categoria_id = ANY($1) ORDER BY id`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list modelos por categoría: %w", err)
	}
	return collectModels(rows)
}

func (r *ModelRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM modelos WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el modelo tiene activos", domain.ErrConflict)
		}
		return fmt.Errorf("delete modelo: %w", err)
	}
	return nil
}

// schemaColumn traduce un SchemaField a su columna SQL, aceptando solo los campos permitidos.
func schemaColumn(field entity.SchemaField, allowed ...entity.SchemaField) (string, error) {
	for _, a := range allowed {
		if a != field {
			continue
		}
		switch field {
		case entity.FieldDefinition:
			return "definicion", nil
		case entity.FieldSpecifications:
			return "especificaciones", nil
		case entity.FieldCustomData:
			return "datos_personalizados", nil
		}
	}
	return "", fmt.Errorf("%w: campo de esquema %q", domain.ErrInvalidInput, field)
}
