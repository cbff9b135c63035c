package entity

import "time"

// Entity objeto de negocio. PublicID es único dentro de su categoría e inmutable una vez asignado.
type Entity struct {
	ID         int64
	CategoryID int64
	PublicID   string
	CreatedAt  time.Time
}

// EntityParent arista del DAG (una entidad puede tener varios padres).
type EntityParent struct {
	EntityID       int64
	ParentEntityID int64
}

// EntityFieldEntry valor vivo de un atributo; hay exactamente una fila por (EntityID, CategoryFieldID).
type EntityFieldEntry struct {
	EntityID        int64
	CategoryFieldID int64
	Value           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EntityFieldEntryAudit copia de una fila reemplazada. Solo se inserta, nunca se modifica.
type EntityFieldEntryAudit struct {
	EntityID        int64
	CategoryFieldID int64
	Value           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ArchivedAt      time.Time
}
