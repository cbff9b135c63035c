package hierarchy

import (
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
)

// Atributos que se copian del subsistema de proyectos a los nodos Project.
const (
	FieldProjectTitle     = "projectTitle"
	FieldProjectStatus    = "projectStatus"
	FieldPercentComplete  = "percentComplete"
	FieldNextMilestone    = "nextMilestone"
	FieldNextMilestoneDue = "nextMilestoneDue"
)

// CollectProjectIDs publicIds de todos los nodos Project del árbol, sin repetir.
func CollectProjectIDs(roots ...*entity.Node) []string {
	seen := map[string]struct{}{}
	var ids []string
	var walk func(n *entity.Node)
	walk = func(n *entity.Node) {
		if n.Category == CategoryProject {
			if _, ok := seen[n.PublicID]; !ok {
				seen[n.PublicID] = struct{}{}
				ids = append(ids, n.PublicID)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		if r != nil {
			walk(r)
		}
	}
	return ids
}

// MapProjectsToEntities devuelve una copia del árbol en la que cada nodo Project con fila en
// projects recibe los atributos seleccionados. Los proyectos sin fila quedan intactos.
func MapProjectsToEntities(n *entity.Node, projects map[string]*entity.ProjectSummary) *entity.Node {
	if n == nil {
		return nil
	}
	out := n.Clone()
	mergeProjects(out, projects)
	return out
}

func mergeProjects(n *entity.Node, projects map[string]*entity.ProjectSummary) {
	if n.Category == CategoryProject {
		if p, ok := projects[n.PublicID]; ok {
			n.Fields[FieldProjectTitle] = p.Title
			n.Fields[FieldProjectStatus] = p.Status
			n.Fields[FieldPercentComplete] = p.PercentComplete.InexactFloat64()
			if p.DeliveryConfidence != nil {
				n.Fields[FieldDeliveryConfidence] = int64(*p.DeliveryConfidence)
			}
			if p.NextMilestone != "" {
				n.Fields[FieldNextMilestone] = p.NextMilestone
			}
			if p.NextMilestoneDue != nil {
				n.Fields[FieldNextMilestoneDue] = p.NextMilestoneDue.Format(field.DisplayDateLayout)
			}
		}
	}
	for _, c := range n.Children {
		mergeProjects(c, projects)
	}
}
