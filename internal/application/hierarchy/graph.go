package hierarchy

import (
	"sort"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
)

// GraphNode entidad cargada en memoria con sus atributos decodificados y
// referencias explícitas a hijos y padres por id.
type GraphNode struct {
	ID       int64
	PublicID string
	Category string
	Fields   map[string]any
	Children []int64
	Parents  []int64
}

// Graph índice de adyacencia (hijos de / padres de) construido una vez por pasada.
type Graph struct {
	nodes      map[int64]*GraphNode
	byCategory map[string][]int64
}

// BuildGraph arma el índice a partir de la lectura compuesta. Las aristas se conservan aunque
// apunten a entidades inexistentes: esa violación se detecta al materializar.
func BuildGraph(data *entity.GraphData) *Graph {
	categoryNames := make(map[int64]string, len(data.Categories))
	for _, c := range data.Categories {
		categoryNames[c.ID] = c.Name
	}
	type fieldInfo struct {
		name string
		t    field.Type
	}
	fields := make(map[int64]fieldInfo, len(data.Fields))
	for _, f := range data.Fields {
		t, err := field.Parse(f.Type, f.Config)
		if err != nil {
			t = field.String{}
		}
		fields[f.ID] = fieldInfo{name: f.Name, t: t}
	}

	g := &Graph{
		nodes:      make(map[int64]*GraphNode, len(data.Entities)),
		byCategory: make(map[string][]int64, len(data.Categories)),
	}
	for _, c := range data.Categories {
		g.byCategory[c.Name] = nil
	}
	for _, e := range data.Entities {
		cat := categoryNames[e.CategoryID]
		g.nodes[e.ID] = &GraphNode{
			ID:       e.ID,
			PublicID: e.PublicID,
			Category: cat,
			Fields:   map[string]any{},
		}
		g.byCategory[cat] = append(g.byCategory[cat], e.ID)
	}
	for _, entry := range data.Entries {
		n, ok := g.nodes[entry.EntityID]
		if !ok {
			continue
		}
		info, ok := fields[entry.CategoryFieldID]
		if !ok {
			continue
		}
		n.Fields[info.name] = field.Decode(info.t, entry.Value)
	}
	for _, edge := range data.Edges {
		if parent, ok := g.nodes[edge.ParentEntityID]; ok {
			parent.Children = append(parent.Children, edge.EntityID)
		}
		if child, ok := g.nodes[edge.EntityID]; ok {
			child.Parents = append(child.Parents, edge.ParentEntityID)
		}
	}
	for _, n := range g.nodes {
		sortIDs(n.Children)
		sortIDs(n.Parents)
	}
	for _, ids := range g.byCategory {
		sortIDs(ids)
	}
	return g
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Node devuelve el nodo por id o nil.
func (g *Graph) Node(id int64) *GraphNode {
	return g.nodes[id]
}

// ByCategory ids de las entidades de la categoría, en orden ascendente.
func (g *Graph) ByCategory(category string) []int64 {
	return g.byCategory[category]
}

// HasCategory indica si la categoría aparece en la carga (aunque no tenga entidades).
func (g *Graph) HasCategory(category string) bool {
	_, ok := g.byCategory[category]
	return ok
}

// FindByPublicID busca una entidad por categoría y publicId.
func (g *Graph) FindByPublicID(category, publicID string) *GraphNode {
	for _, id := range g.byCategory[category] {
		if n := g.nodes[id]; n.PublicID == publicID {
			return n
		}
	}
	return nil
}
