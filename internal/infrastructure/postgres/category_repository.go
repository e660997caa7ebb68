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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categorias (id, nombre, definicion, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3::jsonb, '{}'::jsonb), $4, $5)`
	_, err := r.q.Exec(ctx, query, category.ID, category.Name, category.Definition, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert categoria: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, definicion, created_at, updated_at FROM categorias WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Definition, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoria: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE categorias SET nombre = $2, definicion = COALESCE($3::jsonb, '{}'::jsonb), updated_at = $4 WHERE id = $1`,
		category.ID, category.Name, category.Definition, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update categoria: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) UpdateDefinition(ctx context.Context, id string, def json.RawMessage) error {
	tag, err := r.q.Exec(ctx, `UPDATE categorias SET definicion = $2, updated_at = NOW() WHERE id = $1`, id, def)
	if err != nil {
		return fmt.Errorf("update definicion categoria: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, nombre, definicion, created_at, updated_at FROM categorias ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Definition, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría tiene modelos", domain.ErrConflict)
		}
		return fmt.Errorf("delete categoria: %w", err)
	}
	return nil
}

// SetGroups reemplaza los vínculos de la categoría. Conviene llamarlo dentro de una tx.
func (r *CategoryRepo) SetGroups(ctx context.Context, categoryID string, groupIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categoria_grupos WHERE categoria_id = $1`, categoryID); err != nil {
		return fmt.Errorf("delete categoria_grupos: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO categoria_grupos (categoria_id, grupo_id)
		SELECT $1, g FROM unnest($2::text[]) AS g
		ON CONFLICT DO NOTHING`, categoryID, groupIDs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: grupo o categoría inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert categoria_grupos: %w", err)
	}
	return nil
}

func (r *CategoryRepo) FindGroupIDsForCategories(ctx context.Context, categoryIDs []string) ([]entity.CategoryGroup, error) {
	return r.links(ctx, `categoria_id`, categoryIDs)
}

func (r *CategoryRepo) FindCategoryIDsForGroups(ctx context.Context, groupIDs []string) ([]entity.CategoryGroup, error) {
	return r.links(ctx, `grupo_id`, groupIDs)
}

// links lista filas de categoria_grupos filtrando por column (constante interna, no entrada de usuario).
func (r *CategoryRepo) links(ctx context.Context, column string, ids []string) ([]entity.CategoryGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT categoria_id, grupo_id FROM categoria_grupos WHERE `+column+` = ANY($1) ORDER BY categoria_id, grupo_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list categoria_grupos: %w", err)
	}
	defer rows.Close()
	var out []entity.CategoryGroup
	for rows.Next() {
		var cg entity.CategoryGroup
		if err := rows.Scan(&cg.CategoryID, &cg.GroupID); err != nil {
			return nil, fmt.Errorf("scan categoria_grupos: %w", err)
		}
		out = append(out, cg)
	}
	return out, rows.Err()
}
