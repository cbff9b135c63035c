package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo lectura de project_summary, la vista que publica el subsistema de proyectos.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// ListByPublicIDs devuelve los resúmenes existentes; los publicId sin fila se omiten.
// percent_complete es NUMERIC y se escanea a decimal.Decimal con el codec registrado en el pool.
func (r *ProjectRepo) ListByPublicIDs(ctx context.Context, publicIDs []string) ([]*entity.ProjectSummary, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT public_id, title, status, delivery_confidence, percent_complete,
			COALESCE(next_milestone, ''), next_milestone_due
		FROM project_summary WHERE public_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, publicIDs)
	if err != nil {
		return nil, fmt.Errorf("list project summaries: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProjectSummary
	for rows.Next() {
		var p entity.ProjectSummary
		if err := rows.Scan(&p.PublicID, &p.Title, &p.Status, &p.DeliveryConfidence, &p.PercentComplete,
			&p.NextMilestone, &p.NextMilestoneDue); err != nil {
			return nil, fmt.Errorf("scan project summary: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
