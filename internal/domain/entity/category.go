package entity

import (
	"encoding/json"
	"time"
)

// Category define un tipo de objeto de negocio (Theme, Project, Measure, ...) con su esquema dinámico.
// PublicIDFormat es el prefijo de los identificadores públicos; CurrentMaxID el último secuencial asignado.
type Category struct {
	ID             int64
	Name           string
	PublicIDFormat string
	CurrentMaxID   int64
}

// CategoryParent relación category → categoría padre. IsRequired obliga a informar el padre al importar.
type CategoryParent struct {
	CategoryID       int64
	ParentCategoryID int64
	IsRequired       bool
}

// CategoryField definición persistida de un atributo. Nunca se borra, solo se desactiva.
type CategoryField struct {
	ID          int64
	CategoryID  int64
	Name        string
	DisplayName string
	Type        string // string, boolean, integer, float, date, group
	Config      json.RawMessage
	IsActive    bool
	IsRequired  bool
	Priority    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
