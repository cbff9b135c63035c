package repository

import (
	"context"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// GraphReader lectura compuesta del grafo completo para el materializador.
type GraphReader interface {
	LoadGraph(ctx context.Context) (*entity.GraphData, error)
}

// ProjectRepository lectura del subsistema externo de proyectos/hitos (solo lectura).
type ProjectRepository interface {
	ListByPublicIDs(ctx context.Context, publicIDs []string) ([]*entity.ProjectSummary, error)
}
