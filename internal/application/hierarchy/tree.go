package hierarchy

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// Categorías con tratamiento especial en la materialización.
const (
	CategoryTheme   = "Theme"
	CategoryProject = "Project"
	CategoryMeasure = "Measure"
)

// Una medida se agrupa en variantes; solo la marcada con este filtro representa al grupo.
const (
	FilterField  = "filter"
	FilterRollup = "RAYG"
)

// MapEntityChildren construye el árbol anidado desde id. Un hijo referenciado que no existe en
// el grafo es una violación de integridad y devuelve ErrDanglingReference. De los hijos de
// categoría Measure solo se conservan los marcados filter = RAYG.
func MapEntityChildren(g *Graph, id int64) (*entity.Node, error) {
	n := g.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: entidad %d", domain.ErrDanglingReference, id)
	}
	out := &entity.Node{
		ID:       n.ID,
		PublicID: n.PublicID,
		Category: n.Category,
		Fields:   make(map[string]any, len(n.Fields)),
		Children: make([]*entity.Node, 0, len(n.Children)),
	}
	for k, v := range n.Fields {
		out.Fields[k] = v
	}
	for _, childID := range n.Children {
		child := g.Node(childID)
		if child == nil {
			return nil, fmt.Errorf("%w: hijo %d de %s", domain.ErrDanglingReference, childID, n.PublicID)
		}
		if child.Category == CategoryMeasure && !inRollup(child.Fields[FilterField]) {
			continue
		}
		c, err := MapEntityChildren(g, childID)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, c)
	}
	return out, nil
}

// inRollup compara sin mayúsculas: filter puede estar definido como texto libre.
func inRollup(v any) bool {
	s, _ := v.(string)
	return strings.EqualFold(strings.TrimSpace(s), FilterRollup)
}
