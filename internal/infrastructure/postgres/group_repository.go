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

var _ repository.GroupRepository = (*GroupRepo)(nil)

const groupColumns = `id, COALESCE(parent_id, ''), nombre, definicion, created_at, updated_at`

// GroupRepo implementación de GroupRepository sobre PostgreSQL (usable con pool o tx).
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador de persistencia para grupos. Pasar pool o tx (Querier).
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

func scanGroup(row pgx.Row) (*entity.Group, error) {
	var g entity.Group
	if err := row.Scan(&g.ID, &g.ParentID, &g.Name, &g.Definition, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGroups(rows pgx.Rows) ([]*entity.Group, error) {
	defer rows.Close()
	var out []*entity.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Create persiste un nuevo grupo.
func (r *GroupRepo) Create(ctx context.Context, group *entity.Group) error {
	query := `
		INSERT INTO grupos (id, parent_id, nombre, definicion, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, COALESCE($4::jsonb, '{}'::jsonb), $5, $6)`
	_, err := r.q.Exec(ctx, query, group.ID, group.ParentID, group.Name, group.Definition, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: grupo padre %s", domain.ErrNotFound, group.ParentID)
		}
		return fmt.Errorf("insert grupo: %w", err)
	}
	return nil
}

// GetByID obtiene un grupo por ID. Devuelve nil, nil si no existe.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	g, err := scanGroup(r.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM grupos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grupo: %w", err)
	}
	return g, nil
}

// GetByName obtiene un grupo por su nombre único.
func (r *GroupRepo) GetByName(ctx context.Context, name string) (*entity.Group, error) {
	g, err := scanGroup(r.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM grupos WHERE nombre = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grupo por nombre: %w", err)
	}
	return g, nil
}

// Update actualiza nombre, padre y definición.
func (r *GroupRepo) Update(ctx context.Context, group *entity.Group) error {
	query := `
		UPDATE grupos SET parent_id = NULLIF($2, ''), nombre = $3, definicion = COALESCE($4::jsonb, '{}'::jsonb), updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, group.ID, group.ParentID, group.Name, group.Definition, group.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update grupo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDefinition reemplaza solo la definición.
func (r *GroupRepo) UpdateDefinition(ctx context.Context, id string, def json.RawMessage) error {
	tag, err := r.q.Exec(ctx, `UPDATE grupos SET definicion = $2, updated_at = NOW() WHERE id = $1`, id, def)
	if err != nil {
		return fmt.Errorf("update definicion grupo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista grupos ordenados por ID.
func (r *GroupRepo) List(ctx context.Context, limit, offset int) ([]*entity.Group, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, `SELECT `+groupColumns+` FROM grupos ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list grupos: %w", err)
	}
	out, err := collectGroups(rows)
	if err != nil {
		return nil, fmt.Errorf("scan grupos: %w", err)
	}
	return out, nil
}

// ListByIDs devuelve los grupos con IDs en ids.
func (r *GroupRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+groupColumns+` FROM grupos WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list grupos por ids: %w", err)
	}
	out, err := collectGroups(rows)
	if err != nil {
		return nil, fmt.Errorf("scan grupos: %w", err)
	}
	return out, nil
}

// ListChildIDs devuelve los IDs de los hijos directos de parentIDs.
func (r *GroupRepo) ListChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM grupos WHERE parent_id = ANY($1) ORDER BY id`, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list subgrupos: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan subgrupos: %w", err)
	}
	return ids, nil
}

// Delete elimina un grupo; sus vínculos con categorías caen por ON DELETE CASCADE.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM grupos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grupo: %w", err)
	}
	return nil
}
