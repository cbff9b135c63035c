package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// FieldEntryRepository puerto del almacén de valores y su tabla de auditoría.
type FieldEntryRepository interface {
	Get(ctx context.Context, entityID, categoryFieldID int64) (*entity.EntityFieldEntry, error)
	Upsert(ctx context.Context, entry *entity.EntityFieldEntry) error
	// Archive copia la fila tal cual a entity_field_entry_audit con archived_at.
	Archive(ctx context.Context, entry *entity.EntityFieldEntry, archivedAt time.Time) error
	// ListAudit devuelve el historial de una clave, del más antiguo al más reciente.
	ListAudit(ctx context.Context, entityID, categoryFieldID int64) ([]*entity.EntityFieldEntryAudit, error)
}
