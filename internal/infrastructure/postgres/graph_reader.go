package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var _ repository.GraphReader = (*GraphReader)(nil)

// GraphReader carga el grafo completo en una transacción de solo lectura REPEATABLE READ,
// así entidades, aristas y valores corresponden a la misma foto de la base.
type GraphReader struct {
	pool *pgxpool.Pool
}

// NewGraphReader construye el lector con el pool.
func NewGraphReader(pool *pgxpool.Pool) *GraphReader {
	return &GraphReader{pool: pool}
}

// LoadGraph implementa repository.GraphReader.
func (r *GraphReader) LoadGraph(ctx context.Context) (*entity.GraphData, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	data := &entity.GraphData{}
	if data.Categories, err = NewCategoryRepository(tx).List(ctx); err != nil {
		return nil, err
	}
	if data.Fields, err = loadActiveFields(ctx, tx); err != nil {
		return nil, err
	}
	if data.Entities, err = loadEntities(ctx, tx); err != nil {
		return nil, err
	}
	if data.Edges, err = loadEdges(ctx, tx); err != nil {
		return nil, err
	}
	if data.Entries, err = loadActiveEntries(ctx, tx); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit read transaction: %w", err)
	}
	return data, nil
}

func loadActiveFields(ctx context.Context, q Querier) ([]*entity.CategoryField, error) {
	rows, err := q.Query(ctx, `SELECT `+fieldColumns+` FROM category_field WHERE is_active ORDER BY category_id, priority, id`)
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	defer rows.Close()
	var out []*entity.CategoryField
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func loadEntities(ctx context.Context, q Querier) ([]*entity.Entity, error) {
	rows, err := q.Query(ctx, `SELECT id, category_id, public_id, created_at FROM entity ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}
	defer rows.Close()
	var out []*entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadEdges(ctx context.Context, q Querier) ([]entity.EntityParent, error) {
	rows, err := q.Query(ctx, `SELECT entity_id, parent_entity_id FROM entity_parent`)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer rows.Close()
	var out []entity.EntityParent
	for rows.Next() {
		var e entity.EntityParent
		if err := rows.Scan(&e.EntityID, &e.ParentEntityID); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadActiveEntries(ctx context.Context, q Querier) ([]*entity.EntityFieldEntry, error) {
	query := `
		SELECT efe.entity_id, efe.category_field_id, efe.value, efe.created_at, efe.updated_at
		FROM entity_field_entry efe
		JOIN category_field cf ON cf.id = efe.category_field_id
		WHERE cf.is_active`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.EntityFieldEntry
	for rows.Next() {
		var e entity.EntityFieldEntry
		if err := rows.Scan(&e.EntityID, &e.CategoryFieldID, &e.Value, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
