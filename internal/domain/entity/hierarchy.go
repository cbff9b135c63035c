package entity

// Color estado RAG/RAYG calculado en el rollup.
type Color string

const (
	ColorRed    Color = "red"
	ColorAmber  Color = "amber"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
)

// Severity orden fijo de severidad, del peor al mejor.
var Severity = []Color{ColorRed, ColorAmber, ColorYellow, ColorGreen}

// Node nodo del árbol materializado. Fields contiene los valores ya decodificados.
type Node struct {
	ID       int64          `json:"id"`
	PublicID string         `json:"publicId"`
	Category string         `json:"category"`
	Fields   map[string]any `json:"fields"`
	Children []*Node        `json:"children"`
	Color    Color          `json:"color,omitempty"`
}

// Clone copia profunda del nodo y su subárbol.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:       n.ID,
		PublicID: n.PublicID,
		Category: n.Category,
		Color:    n.Color,
		Fields:   make(map[string]any, len(n.Fields)),
		Children: make([]*Node, 0, len(n.Children)),
	}
	for k, v := range n.Fields {
		out.Fields[k] = v
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// GraphData lectura compuesta de todo el grafo: base para una pasada de materialización.
type GraphData struct {
	Categories []*Category
	Fields     []*CategoryField // solo campos activos
	Entities   []*Entity
	Edges      []EntityParent
	Entries    []*EntityFieldEntry // solo de campos activos
}
