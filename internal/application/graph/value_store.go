package graph

import (
	"context"
	"time"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// FieldEntryInput valor entrante para una clave (entidad, campo). Value nil = no informado.
type FieldEntryInput struct {
	EntityID        int64
	CategoryFieldID int64
	Value           *string
}

// EntryOutcome resultado de escribir un valor.
type EntryOutcome int

const (
	EntrySkipped EntryOutcome = iota // no informado o sin cambios
	EntryCreated
	EntryChanged
)

// ImportFieldEntry escribe el valor vivo manteniendo la auditoría:
//   - Value nil: no lee ni escribe.
//   - Mismo valor que el almacenado: no hace nada (idempotente).
//   - Valor distinto: copia la fila anterior a la auditoría y luego la sobrescribe.
func ImportFieldEntry(ctx context.Context, entryRepo repository.FieldEntryRepository, in FieldEntryInput, now time.Time) (EntryOutcome, error) {
	if in.Value == nil {
		return EntrySkipped, nil
	}
	current, err := entryRepo.Get(ctx, in.EntityID, in.CategoryFieldID)
	if err != nil {
		return EntrySkipped, err
	}
	entry := &entity.EntityFieldEntry{
		EntityID:        in.EntityID,
		CategoryFieldID: in.CategoryFieldID,
		Value:           *in.Value,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	outcome := EntryCreated
	if current != nil {
		if current.Value == *in.Value {
			return EntrySkipped, nil
		}
		if err := entryRepo.Archive(ctx, current, now); err != nil {
			return EntrySkipped, err
		}
		entry.CreatedAt = current.CreatedAt
		outcome = EntryChanged
	}
	if err := entryRepo.Upsert(ctx, entry); err != nil {
		return EntrySkipped, err
	}
	return outcome, nil
}
