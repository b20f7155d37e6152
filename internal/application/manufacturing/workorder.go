package manufacturing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// WorkOrderUseCase maneja el ciclo de vida de una work order:
// Ready -> InProgress -> (Paused <-> InProgress) -> Completed, con
// Cancelled/Failed desde cualquier estado no terminal. Completar una WO
// dispara de forma síncrona el consumo de materiales, el avance de la
// siguiente WO y el recálculo de progreso de la MO.
type WorkOrderUseCase struct {
	txRunner TxRunner
	woRepo   repository.WorkOrderRepository
	log      *logger.Logger
}

// NewWorkOrderUseCase construye el caso de uso de work orders.
func NewWorkOrderUseCase(txRunner TxRunner, woRepo repository.WorkOrderRepository, log *logger.Logger) *WorkOrderUseCase {
	return &WorkOrderUseCase{txRunner: txRunner, woRepo: woRepo, log: log}
}

// GetWorkOrder devuelve una WO validando pertenencia a la empresa.
func (uc *WorkOrderUseCase) GetWorkOrder(ctx context.Context, companyID, woID string) (*entity.WorkOrder, error) {
	wo, err := uc.woRepo.GetByID(woID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if wo.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return wo, nil
}

// StartWorkOrder arranca una WO en Ready. La primera WO que arranca mueve
// la MO Confirmed -> InProgress y estampa ActualStartDate.
func (uc *WorkOrderUseCase) StartWorkOrder(ctx context.Context, companyID, woID, actor string) (*entity.WorkOrder, error) {
	var out *entity.WorkOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		wo, err := getOwnedWorkOrder(workOrders, companyID, woID)
		if err != nil {
			return err
		}
		if wo.Status != entity.WOStatusReady {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		wo.Status = entity.WOStatusInProgress
		wo.AssignedTo = actor
		wo.StartedAt = &now
		wo.UpdatedAt = now
		if err := workOrders.Update(wo); err != nil {
			return err
		}

		mo, err := orders.GetForUpdate(wo.ManufacturingOrderID)
		if err != nil {
			return err
		}
		if mo != nil && mo.Status == entity.MOStatusConfirmed {
			mo.Status = entity.MOStatusInProgress
			if mo.ActualStartDate == nil {
				mo.ActualStartDate = &now
			}
			mo.UpdatedAt = now
			if err := orders.Update(mo); err != nil {
				return err
			}
		}
		out = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PauseWorkOrder pausa una WO en progreso.
func (uc *WorkOrderUseCase) PauseWorkOrder(ctx context.Context, companyID, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, companyID, woID, func(wo *entity.WorkOrder, now time.Time) error {
		if wo.Status != entity.WOStatusInProgress {
			return domain.ErrInvalidTransition
		}
		wo.Status = entity.WOStatusPaused
		wo.PausedAt = &now
		return nil
	})
}

// ResumeWorkOrder reanuda una WO pausada, acumulando el tiempo de pausa.
func (uc *WorkOrderUseCase) ResumeWorkOrder(ctx context.Context, companyID, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, companyID, woID, func(wo *entity.WorkOrder, now time.Time) error {
		if wo.Status != entity.WOStatusPaused {
			return domain.ErrInvalidTransition
		}
		if wo.PausedAt != nil {
			wo.PausedTime += now.Sub(*wo.PausedAt)
			wo.PausedAt = nil
		}
		wo.Status = entity.WOStatusInProgress
		return nil
	})
}

// CancelWorkOrder cancela una WO no terminal.
func (uc *WorkOrderUseCase) CancelWorkOrder(ctx context.Context, companyID, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, companyID, woID, func(wo *entity.WorkOrder, now time.Time) error {
		if wo.IsTerminal() {
			return domain.ErrInvalidTransition
		}
		wo.Status = entity.WOStatusCancelled
		return nil
	})
}

// FailWorkOrder marca como fallida una WO no terminal.
func (uc *WorkOrderUseCase) FailWorkOrder(ctx context.Context, companyID, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, companyID, woID, func(wo *entity.WorkOrder, now time.Time) error {
		if wo.IsTerminal() {
			return domain.ErrInvalidTransition
		}
		wo.Status = entity.WOStatusFailed
		return nil
	})
}

// ConsumedLine reporta el consumo/merma real de un material al completar la WO.
type ConsumedLine struct {
	MaterialID       string
	QuantityConsumed decimal.Decimal
	QuantityScrapped decimal.Decimal
}

// CompleteWorkOrder completa una WO en progreso: estampa duración real,
// convierte los apartados en consumo (los fallos de consumo se registran
// pero no bloquean el cierre: el trabajo físico ya ocurrió y se prefiere
// conciliar después antes que dejar la WO varada por contabilidad),
// avanza la siguiente WO a Ready y recalcula el progreso de la MO.
//
// Solo es válida desde InProgress: intentarla sobre una WO ya Completed
// falla en la guarda de estado, lo que impide el doble consumo.
func (uc *WorkOrderUseCase) CompleteWorkOrder(ctx context.Context, companyID, woID string, consumed []ConsumedLine, actor string) (*entity.WorkOrder, error) {
	var out *entity.WorkOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		materials repository.MaterialRepository,
		stockLedger repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		wo, err := getOwnedWorkOrder(workOrders, companyID, woID)
		if err != nil {
			return err
		}
		if wo.Status != entity.WOStatusInProgress {
			return domain.ErrInvalidTransition
		}

		mo, err := orders.GetForUpdate(wo.ManufacturingOrderID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}

		// Consumo reportado por el operario (opcional, por material).
		for _, line := range consumed {
			for i := range wo.Materials {
				if wo.Materials[i].MaterialID == line.MaterialID {
					wo.Materials[i].QuantityConsumed = line.QuantityConsumed
					wo.Materials[i].QuantityScrapped = line.QuantityScrapped
					break
				}
			}
		}

		now := time.Now()
		txs, consumeErrs := consumeForWorkOrder(uc.log.Zerolog(), materials, stockLedger, mo, wo, actor)
		for _, cerr := range consumeErrs {
			uc.log.Warn().Err(cerr).
				Str("work_order_id", wo.ID).
				Str("order_id", mo.ID).
				Msg("fallo de consumo al completar la work order; requiere conciliación")
		}
		uc.log.Info().
			Str("work_order_id", wo.ID).
			Int("transactions", len(txs)).
			Msg("materiales consumidos")

		wo.Status = entity.WOStatusCompleted
		wo.CompletedAt = &now
		if wo.StartedAt != nil {
			wo.RealDuration = now.Sub(*wo.StartedAt) - wo.PausedTime
		}
		wo.UpdatedAt = now
		if err := workOrders.Update(wo); err != nil {
			return err
		}

		if _, err := advanceNext(workOrders, wo); err != nil {
			return err
		}

		wos, err := workOrders.ListByOrder(mo.ID)
		if err != nil {
			return err
		}
		recomputeProgress(mo, wos, now)
		mo.UpdatedAt = now
		if err := orders.Update(mo); err != nil {
			return err
		}
		out = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// transition aplica un cambio de estado simple sobre la WO dentro de una tx.
func (uc *WorkOrderUseCase) transition(ctx context.Context, companyID, woID string, fn func(wo *entity.WorkOrder, now time.Time) error) (*entity.WorkOrder, error) {
	var out *entity.WorkOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.StockLedgerRepository,
		_ repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		_ repository.BOMRepository,
	) error {
		wo, err := getOwnedWorkOrder(workOrders, companyID, woID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := fn(wo, now); err != nil {
			return err
		}
		wo.UpdatedAt = now
		if err := workOrders.Update(wo); err != nil {
			return err
		}
		out = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getOwnedWorkOrder(workOrders repository.WorkOrderRepository, companyID, woID string) (*entity.WorkOrder, error) {
	wo, err := workOrders.GetByID(woID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if wo.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return wo, nil
}
