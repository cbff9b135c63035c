package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var _ repository.EntityRepository = (*EntityRepo)(nil)

// EntityRepo implementación de EntityRepository sobre PostgreSQL (usable con pool o tx).
type EntityRepo struct {
	q Querier
}

// NewEntityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntityRepository(q Querier) *EntityRepo {
	return &EntityRepo{q: q}
}

func scanEntity(row pgx.Row) (*entity.Entity, error) {
	var e entity.Entity
	if err := row.Scan(&e.ID, &e.CategoryID, &e.PublicID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByPublicID obtiene una entidad por (categoría, publicId).
func (r *EntityRepo) GetByPublicID(ctx context.Context, categoryID int64, publicID string) (*entity.Entity, error) {
	query := `
		SELECT id, category_id, public_id, created_at
		FROM entity WHERE category_id = $1 AND public_id = $2`
	e, err := scanEntity(r.q.QueryRow(ctx, query, categoryID, publicID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity by public id: %w", err)
	}
	return e, nil
}

// FindByPublicID busca el publicId en cualquiera de las categorías; si hay varias, la de menor ID.
func (r *EntityRepo) FindByPublicID(ctx context.Context, categoryIDs []int64, publicID string) (*entity.Entity, error) {
	query := `
		SELECT id, category_id, public_id, created_at
		FROM entity WHERE category_id = ANY($1) AND public_id = $2
		ORDER BY id LIMIT 1`
	e, err := scanEntity(r.q.QueryRow(ctx, query, categoryIDs, publicID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find entity by public id: %w", err)
	}
	return e, nil
}

// Create inserta la entidad. Un publicId repetido en la categoría devuelve domain.ErrDuplicate.
func (r *EntityRepo) Create(ctx context.Context, e *entity.Entity) error {
	query := `
		INSERT INTO entity (category_id, public_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, e.CategoryID, e.PublicID, e.CreatedAt).Scan(&e.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entity %s: %w", e.PublicID, domain.ErrDuplicate)
		}
		return mapError("create entity", fmt.Errorf("create entity: %w", err))
	}
	return nil
}

// ListPublicIDsByCategories publicIds de las categorías en orden de creación.
func (r *EntityRepo) ListPublicIDsByCategories(ctx context.Context, categoryIDs []int64) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT public_id FROM entity WHERE category_id = ANY($1) ORDER BY id`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list public ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan public id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListParents entidades padre directas.
func (r *EntityRepo) ListParents(ctx context.Context, entityID int64) ([]*entity.Entity, error) {
	query := `
		SELECT e.id, e.category_id, e.public_id, e.created_at
		FROM entity_parent ep
		JOIN entity e ON e.id = ep.parent_entity_id
		WHERE ep.entity_id = $1
		ORDER BY e.id`
	rows, err := r.q.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("list entity parents: %w", err)
	}
	defer rows.Close()
	var out []*entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parent entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddParent crea la arista si no existe.
func (r *EntityRepo) AddParent(ctx context.Context, edge entity.EntityParent) error {
	query := `
		INSERT INTO entity_parent (entity_id, parent_entity_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(ctx, query, edge.EntityID, edge.ParentEntityID); err != nil {
		return mapError("add entity parent", fmt.Errorf("add entity parent: %w", err))
	}
	return nil
}

// RemoveParent elimina la arista.
func (r *EntityRepo) RemoveParent(ctx context.Context, edge entity.EntityParent) error {
	query := `DELETE FROM entity_parent WHERE entity_id = $1 AND parent_entity_id = $2`
	if _, err := r.q.Exec(ctx, query, edge.EntityID, edge.ParentEntityID); err != nil {
		return mapError("remove entity parent", fmt.Errorf("remove entity parent: %w", err))
	}
	return nil
}
