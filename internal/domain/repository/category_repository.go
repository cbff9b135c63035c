package repository

import (
	"context"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para categorías y su esquema (DIP).
// Los Get devuelven (nil, nil) si no existe.
type CategoryRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// GetForUpdate bloquea la fila de la categoría (contador) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Category, error)
	UpdateCurrentMaxID(ctx context.Context, id, currentMaxID int64) error
	List(ctx context.Context) ([]*entity.Category, error)
	ListParents(ctx context.Context, categoryID int64) ([]entity.CategoryParent, error)
	// ListActiveFields devuelve los campos activos ordenados por prioridad ascendente.
	ListActiveFields(ctx context.Context, categoryID int64) ([]*entity.CategoryField, error)

	// Administración del esquema (seed).
	Upsert(ctx context.Context, category *entity.Category) error
	UpsertField(ctx context.Context, f *entity.CategoryField) error
	UpsertParent(ctx context.Context, p entity.CategoryParent) error
}
