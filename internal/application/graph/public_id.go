package graph

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// PublicIDPadding ancho mínimo del secuencial en el publicId (measure-01).
const PublicIDPadding = 2

// FormatPublicID compone prefijo + secuencial con relleno de ceros.
func FormatPublicID(prefix string, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, PublicIDPadding, seq)
}

// NextPublicID bloquea la fila del contador de la categoría (SELECT FOR UPDATE), incrementa
// current_max_id y devuelve el nuevo publicId. El lock dura hasta el fin de la transacción del caller,
// así dos importaciones concurrentes de la misma categoría nunca reciben el mismo identificador.
// Los secuenciales ya ocupados por un publicId enviado explícitamente se saltan.
func NextPublicID(ctx context.Context, categoryRepo repository.CategoryRepository, entityRepo repository.EntityRepository, categoryID int64) (string, error) {
	category, err := categoryRepo.GetForUpdate(ctx, categoryID)
	if err != nil {
		return "", err
	}
	if category == nil {
		return "", domain.ErrNotFound
	}
	next := category.CurrentMaxID
	var publicID string
	for {
		next++
		publicID = FormatPublicID(category.PublicIDFormat, next)
		taken, err := entityRepo.GetByPublicID(ctx, categoryID, publicID)
		if err != nil {
			return "", fmt.Errorf("check public id %s: %w", publicID, err)
		}
		if taken == nil {
			break
		}
	}
	if err := categoryRepo.UpdateCurrentMaxID(ctx, categoryID, next); err != nil {
		return "", err
	}
	return publicID, nil
}
