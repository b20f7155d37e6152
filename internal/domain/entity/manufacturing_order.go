package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de fabricación (MO).
// Draft -> Confirmed -> InProgress -> ToClose -> Done; Cancelled es
// alcanzable desde cualquier estado no terminal.
const (
	MOStatusDraft      = "DRAFT"
	MOStatusConfirmed  = "CONFIRMED"
	MOStatusInProgress = "IN_PROGRESS"
	MOStatusToClose    = "TO_CLOSE"
	MOStatusDone       = "DONE"
	MOStatusCancelled  = "CANCELLED"
)

// ManufacturingOrder es una solicitud de producir Quantity unidades de un
// producto terminado. Components es un snapshot denormalizado tomado al
// crear/confirmar la orden, independiente de ediciones posteriores del BOM.
// Progress (0-100) se deriva de las work orders hijas; nunca lo fija un cliente.
type ManufacturingOrder struct {
	ID                string
	CompanyID         string
	Number            string // consecutivo legible (MO-0001)
	ProductName       string
	ProductMaterialID string // enlace explícito al material del producto terminado
	BOMID             string
	Quantity          decimal.Decimal
	Status            string
	Progress          int // 0-100, derivado de las WOs
	Components        []MOComponent
	WorkOrderIDs      []string // ordenadas por secuencia de operación
	PlannedStartDate  *time.Time
	PlannedEndDate    *time.Time
	ActualStartDate   *time.Time
	ActualEndDate     *time.Time
	CancelReason      string
	Version           int64 // bloqueo optimista
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MOComponent es una línea de material de la orden: requerido, apartado y
// consumido acumulado. QuantityReserved refleja el apartado vigente; el
// consumo lo reduce al liberar la reserva.
type MOComponent struct {
	MaterialID       string
	QuantityRequired decimal.Decimal // ya escalado a la cantidad de la orden
	QuantityReserved decimal.Decimal
	QuantityConsumed decimal.Decimal
	UnitCost         decimal.Decimal
	WastePercent     decimal.Decimal
}

// IsTerminal indica si la orden está en un estado final (Done o Cancelled).
func (mo *ManufacturingOrder) IsTerminal() bool {
	return mo.Status == MOStatusDone || mo.Status == MOStatusCancelled
}

// ComponentFor devuelve la línea de componente para un material, o nil.
func (mo *ManufacturingOrder) ComponentFor(materialID string) *MOComponent {
	for i := range mo.Components {
		if mo.Components[i].MaterialID == materialID {
			return &mo.Components[i]
		}
	}
	return nil
}
