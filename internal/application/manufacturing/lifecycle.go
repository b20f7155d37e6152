package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// LifecycleUseCase coordina el cierre y la cancelación de órdenes de
// fabricación, y el recálculo de progreso derivado de las work orders.
type LifecycleUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewLifecycleUseCase construye el orquestador de ciclo de vida.
func NewLifecycleUseCase(txRunner TxRunner, log *logger.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, log: log}
}

// CompleteOrder cierra una orden en ToClose: exige todas las WOs
// Completed (ErrIncompleteWorkOrders), marca Done con progreso 100 y, si
// la orden enlaza el material del producto terminado, registra la entrada
// (IN) de las unidades producidas. La recepción es best-effort: la
// ausencia del enlace no es error, y un fallo al registrarla se loguea sin
// revertir el cierre.
func (uc *LifecycleUseCase) CompleteOrder(ctx context.Context, companyID, orderID, actor string) (*entity.ManufacturingOrder, error) {
	var out *entity.ManufacturingOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		materials repository.MaterialRepository,
		stockLedger repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		mo, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if mo.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if mo.IsTerminal() {
			return domain.ErrAlreadyDone
		}

		wos, err := workOrders.ListByOrder(mo.ID)
		if err != nil {
			return err
		}
		if len(wos) == 0 {
			return domain.ErrIncompleteWorkOrders
		}
		for _, wo := range wos {
			if wo.Status != entity.WOStatusCompleted {
				return domain.ErrIncompleteWorkOrders
			}
		}

		now := time.Now()
		mo.Status = entity.MOStatusDone
		mo.Progress = 100
		mo.ActualEndDate = &now
		mo.UpdatedAt = now

		// Recepción del producto terminado vía enlace explícito de material
		// (el costo unitario sale del snapshot de componentes de la orden).
		if mo.ProductMaterialID != "" {
			_, err := ledger.Apply(uc.log.Zerolog(), materials, stockLedger, ledger.Event{
				MaterialID:  mo.ProductMaterialID,
				Type:        entity.TransactionTypeIN,
				Quantity:    mo.Quantity,
				UnitCost:    orderUnitCost(mo),
				Reference:   mo.Number,
				PerformedBy: actor,
			})
			if err != nil {
				uc.log.Warn().Err(err).
					Str("order_id", mo.ID).
					Str("material_id", mo.ProductMaterialID).
					Msg("fallo al recibir producto terminado; requiere conciliación")
			}
		}

		if err := orders.Update(mo); err != nil {
			return err
		}
		out = mo
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", orderID).Str("actor", actor).Msg("orden de fabricación completada")
	return out, nil
}

// CancelOrder cancela una orden no terminal (ErrAlreadyDone si Done o ya
// Cancelled): libera íntegro cada apartado aún no consumido dejando una
// transacción UNRESERVE anotada con el motivo, cancela las WOs hijas en
// Pending/Ready y marca la orden Cancelled.
func (uc *LifecycleUseCase) CancelOrder(ctx context.Context, companyID, orderID, reason, actor string) (*entity.ManufacturingOrder, error) {
	var out *entity.ManufacturingOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		materials repository.MaterialRepository,
		stockLedger repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		mo, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if mo.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if mo.IsTerminal() {
			return domain.ErrAlreadyDone
		}

		now := time.Now()
		for i := range mo.Components {
			c := &mo.Components[i]
			if !c.QuantityReserved.GreaterThan(decimal.Zero) {
				continue
			}
			_, err := ledger.Apply(uc.log.Zerolog(), materials, stockLedger, ledger.Event{
				MaterialID:  c.MaterialID,
				Type:        entity.TransactionTypeUNRESERVE,
				Quantity:    c.QuantityReserved,
				Reference:   fmt.Sprintf("%s cancelada: %s", mo.Number, reason),
				PerformedBy: actor,
			})
			if err != nil {
				return err
			}
			c.QuantityReserved = decimal.Zero
		}

		wos, err := workOrders.ListByOrder(mo.ID)
		if err != nil {
			return err
		}
		for _, wo := range wos {
			if wo.Status == entity.WOStatusPending || wo.Status == entity.WOStatusReady {
				wo.Status = entity.WOStatusCancelled
				wo.UpdatedAt = now
				if err := workOrders.Update(wo); err != nil {
					return err
				}
			}
		}

		mo.Status = entity.MOStatusCancelled
		mo.CancelReason = reason
		mo.UpdatedAt = now
		if err := orders.Update(mo); err != nil {
			return err
		}
		out = mo
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", orderID).Str("reason", reason).Msg("orden de fabricación cancelada")
	return out, nil
}

// RecomputeProgress recalcula el progreso de la orden desde sus WOs y
// aplica las transiciones de estado derivadas.
func (uc *LifecycleUseCase) RecomputeProgress(ctx context.Context, companyID, orderID string) (*entity.ManufacturingOrder, error) {
	var out *entity.ManufacturingOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		mo, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if mo.CompanyID != companyID {
			return domain.ErrForbidden
		}
		wos, err := workOrders.ListByOrder(mo.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		recomputeProgress(mo, wos, now)
		mo.UpdatedAt = now
		if err := orders.Update(mo); err != nil {
			return err
		}
		out = mo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// recomputeProgress deriva progreso y estado de la MO desde sus WOs:
// progreso = round(100*completadas/totales); >0 en Draft sube a Confirmed;
// entre 0 y 100 pasa a InProgress (estampando ActualStartDate una sola
// vez); 100 deja la orden en ToClose — el paso a Done es siempre un cierre
// explícito (CompleteOrder), nunca automático. Sin WOs no hace nada.
func recomputeProgress(mo *entity.ManufacturingOrder, wos []*entity.WorkOrder, now time.Time) {
	if len(wos) == 0 || mo.IsTerminal() {
		return
	}
	p := manufacturing.Progress(wos)
	mo.Progress = p
	switch {
	case p == 0:
		return
	case p == 100:
		mo.Status = entity.MOStatusToClose
	default:
		mo.Status = entity.MOStatusInProgress
		if mo.ActualStartDate == nil {
			mo.ActualStartDate = &now
		}
	}
}

// orderUnitCost estima el costo unitario del producto terminado desde el
// snapshot de componentes de la orden.
func orderUnitCost(mo *entity.ManufacturingOrder) decimal.Decimal {
	total := decimal.Zero
	for _, c := range mo.Components {
		total = total.Add(c.UnitCost.Mul(c.QuantityRequired))
	}
	if mo.Quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return total.Div(mo.Quantity)
}
