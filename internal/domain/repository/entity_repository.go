package repository

import (
	"context"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// EntityRepository puerto de persistencia del grafo de entidades (nodos y aristas).
type EntityRepository interface {
	GetByPublicID(ctx context.Context, categoryID int64, publicID string) (*entity.Entity, error)
	// FindByPublicID busca en cualquiera de las categorías indicadas.
	FindByPublicID(ctx context.Context, categoryIDs []int64, publicID string) (*entity.Entity, error)
	// Create inserta la entidad y asigna su ID.
	Create(ctx context.Context, e *entity.Entity) error
	ListPublicIDsByCategories(ctx context.Context, categoryIDs []int64) ([]string, error)

	ListParents(ctx context.Context, entityID int64) ([]*entity.Entity, error)
	AddParent(ctx context.Context, edge entity.EntityParent) error
	RemoveParent(ctx context.Context, edge entity.EntityParent) error
}
