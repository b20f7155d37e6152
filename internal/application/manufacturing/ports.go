package manufacturing

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del motor de producción atados a esa tx. Cada operación
// del motor (generar WOs, reservar, consumir, completar, cancelar) corre
// completa dentro de una sola transacción.
type TxRunner interface {
	RunManufacturing(ctx context.Context, fn func(
		materials repository.MaterialRepository,
		stockLedger repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		boms repository.BOMRepository,
	) error) error
}
