package dto

import "time"

// RefreshRequest categorías a reconstruir tras invalidar la caché.
type RefreshRequest struct {
	Categories []string `json:"categories" validate:"omitempty,dive,required"`
}

// FieldVersionResponse una versión de un valor.
type FieldVersionResponse struct {
	Value      string     `json:"value"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// FieldHistoryResponse valor vivo e historial (más antiguo primero).
type FieldHistoryResponse struct {
	EntityID        int64                  `json:"entityId"`
	CategoryFieldID int64                  `json:"categoryFieldId"`
	Current         *FieldVersionResponse  `json:"current,omitempty"`
	History         []FieldVersionResponse `json:"history"`
}
