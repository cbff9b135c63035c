package graph

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// FieldHistory valor vivo de una clave junto con sus versiones archivadas (más antigua primero).
type FieldHistory struct {
	Current *entity.EntityFieldEntry
	Audit   []*entity.EntityFieldEntryAudit
}

// HistoryReader lectura del historial de atributos.
type HistoryReader struct {
	entries repository.FieldEntryRepository
}

// NewHistoryReader construye el lector.
func NewHistoryReader(entries repository.FieldEntryRepository) *HistoryReader {
	return &HistoryReader{entries: entries}
}

// History devuelve ErrNotFound si la clave nunca tuvo valor.
func (h *HistoryReader) History(ctx context.Context, entityID, categoryFieldID int64) (*FieldHistory, error) {
	current, err := h.entries.Get(ctx, entityID, categoryFieldID)
	if err != nil {
		return nil, fmt.Errorf("get field entry: %w", err)
	}
	audit, err := h.entries.ListAudit(ctx, entityID, categoryFieldID)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	if current == nil && len(audit) == 0 {
		return nil, domain.ErrNotFound
	}
	return &FieldHistory{Current: current, Audit: audit}, nil
}
