package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var _ repository.FieldEntryRepository = (*FieldEntryRepo)(nil)

// FieldEntryRepo valores vivos (entity_field_entry) y su auditoría (entity_field_entry_audit).
type FieldEntryRepo struct {
	q Querier
}

// NewFieldEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFieldEntryRepository(q Querier) *FieldEntryRepo {
	return &FieldEntryRepo{q: q}
}

// Get obtiene el valor vivo de (entidad, campo).
func (r *FieldEntryRepo) Get(ctx context.Context, entityID, categoryFieldID int64) (*entity.EntityFieldEntry, error) {
	query := `
		SELECT entity_id, category_field_id, value, created_at, updated_at
		FROM entity_field_entry WHERE entity_id = $1 AND category_field_id = $2`
	var e entity.EntityFieldEntry
	err := r.q.QueryRow(ctx, query, entityID, categoryFieldID).Scan(
		&e.EntityID, &e.CategoryFieldID, &e.Value, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get field entry: %w", err)
	}
	return &e, nil
}

// Upsert inserta o sobrescribe el valor; created_at se conserva en conflicto.
func (r *FieldEntryRepo) Upsert(ctx context.Context, entry *entity.EntityFieldEntry) error {
	query := `
		INSERT INTO entity_field_entry (entity_id, category_field_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_id, category_field_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, entry.EntityID, entry.CategoryFieldID, entry.Value, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return mapError("upsert field entry", fmt.Errorf("upsert field entry: %w", err))
	}
	return nil
}

// Archive copia la fila a la tabla de auditoría.
func (r *FieldEntryRepo) Archive(ctx context.Context, entry *entity.EntityFieldEntry, archivedAt time.Time) error {
	query := `
		INSERT INTO entity_field_entry_audit (entity_id, category_field_id, value, created_at, updated_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, entry.EntityID, entry.CategoryFieldID, entry.Value, entry.CreatedAt, entry.UpdatedAt, archivedAt)
	if err != nil {
		return mapError("archive field entry", fmt.Errorf("archive field entry: %w", err))
	}
	return nil
}

// ListAudit historial de la clave, del más antiguo al más reciente.
func (r *FieldEntryRepo) ListAudit(ctx context.Context, entityID, categoryFieldID int64) ([]*entity.EntityFieldEntryAudit, error) {
	query := `
		SELECT entity_id, category_field_id, value, created_at, updated_at, archived_at
		FROM entity_field_entry_audit
		WHERE entity_id = $1 AND category_field_id = $2
		ORDER BY archived_at, id`
	rows, err := r.q.Query(ctx, query, entityID, categoryFieldID)
	if err != nil {
		return nil, fmt.Errorf("list field entry audit: %w", err)
	}
	defer rows.Close()
	var out []*entity.EntityFieldEntryAudit
	for rows.Next() {
		var a entity.EntityFieldEntryAudit
		if err := rows.Scan(&a.EntityID, &a.CategoryFieldID, &a.Value, &a.CreatedAt, &a.UpdatedAt, &a.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan field entry audit: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
