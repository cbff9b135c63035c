package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectSummary fila del subsistema externo de proyectos/hitos, unida por PublicID.
type ProjectSummary struct {
	PublicID           string
	Title              string
	Status             string
	DeliveryConfidence *int
	PercentComplete    decimal.Decimal
	NextMilestone      string
	NextMilestoneDue   *time.Time
}
