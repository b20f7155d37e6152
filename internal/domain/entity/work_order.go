package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una work order (WO).
// Pending -> Ready -> InProgress -> Paused -> InProgress -> Completed;
// Cancelled y Failed alcanzables desde cualquier estado no terminal.
const (
	WOStatusPending    = "PENDING"
	WOStatusReady      = "READY"
	WOStatusInProgress = "IN_PROGRESS"
	WOStatusPaused     = "PAUSED"
	WOStatusCompleted  = "COMPLETED"
	WOStatusCancelled  = "CANCELLED"
	WOStatusFailed     = "FAILED"
)

// WorkOrder es una instancia de operación perteneciente a exactamente una MO.
// Una WO solo entra en Ready cuando su predecesora inmediata (por Sequence)
// está Completed; la WO #1 nace Ready.
type WorkOrder struct {
	ID                   string
	CompanyID            string
	ManufacturingOrderID string
	Sequence             int
	Name                 string
	WorkCenter           string
	Status               string
	QualityCheck         bool
	Materials            []WOMaterial
	ExpectedDuration     time.Duration
	SetupTime            time.Duration
	RealDuration         time.Duration
	PausedTime           time.Duration // acumulado de pausas
	AssignedTo           string
	StartedAt            *time.Time
	PausedAt             *time.Time
	CompletedAt          *time.Time
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// WOMaterial es la porción de los componentes de la MO relevante a esta
// operación: requerido, consumido real y merma.
type WOMaterial struct {
	MaterialID       string
	QuantityRequired decimal.Decimal
	QuantityConsumed decimal.Decimal
	QuantityScrapped decimal.Decimal
}

// IsTerminal indica si la WO está en un estado final.
func (wo *WorkOrder) IsTerminal() bool {
	return wo.Status == WOStatusCompleted || wo.Status == WOStatusCancelled || wo.Status == WOStatusFailed
}
