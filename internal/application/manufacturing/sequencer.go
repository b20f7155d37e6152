package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// SequencerUseCase genera la cadena de work orders de una orden de
// fabricación a partir de su BOM: una WO por operación, numeradas densas
// (1..N) en el orden de secuencia del BOM. La WO #1 nace Ready; las demás
// Pending hasta que su predecesora complete.
type SequencerUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewSequencerUseCase construye el secuenciador.
func NewSequencerUseCase(txRunner TxRunner, log *logger.Logger) *SequencerUseCase {
	return &SequencerUseCase{txRunner: txRunner, log: log}
}

// GenerateWorkOrders crea las WOs de la orden y la avanza Draft -> Confirmed.
// Precondiciones: la MO no debe tener WOs (ErrAlreadyGenerated), debe
// referenciar un BOM (ErrNoBOM) y el BOM debe tener operaciones (ErrEmptyBOM).
// Los materiales de la orden (con merma) se asignan a la primera operación:
// la entrega de material ocurre al arrancar producción.
func (uc *SequencerUseCase) GenerateWorkOrders(ctx context.Context, companyID, orderID, actor string) ([]*entity.WorkOrder, error) {
	var generated []*entity.WorkOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		workOrders repository.WorkOrderRepository,
		boms repository.BOMRepository,
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
		if len(mo.WorkOrderIDs) > 0 {
			return domain.ErrAlreadyGenerated
		}
		if mo.BOMID == "" {
			return domain.ErrNoBOM
		}

		bom, err := boms.GetByID(mo.BOMID)
		if err != nil {
			return err
		}
		if bom == nil {
			return domain.ErrNoBOM
		}
		if len(bom.Operations) == 0 {
			return domain.ErrEmptyBOM
		}

		reqs, err := manufacturing.ResolveBOM(bom, mo.Quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		for i, op := range reqs.Operations {
			status := entity.WOStatusPending
			if i == 0 {
				status = entity.WOStatusReady
			}
			wo := &entity.WorkOrder{
				ID:                   uuid.New().String(),
				CompanyID:            mo.CompanyID,
				ManufacturingOrderID: mo.ID,
				Sequence:             i + 1,
				Name:                 op.Name,
				WorkCenter:           op.WorkCenter,
				Status:               status,
				QualityCheck:         op.QualityCheck,
				ExpectedDuration:     op.ExpectedDuration,
				SetupTime:            op.SetupTime,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			// Entrega de material en la primera operación.
			if i == 0 {
				for _, c := range mo.Components {
					wo.Materials = append(wo.Materials, entity.WOMaterial{
						MaterialID:       c.MaterialID,
						QuantityRequired: manufacturing.QuantityWithWaste(c.QuantityRequired, c.WastePercent),
					})
				}
			}
			if err := workOrders.Create(wo); err != nil {
				return err
			}
			generated = append(generated, wo)
			mo.WorkOrderIDs = append(mo.WorkOrderIDs, wo.ID)
		}

		if mo.Status == entity.MOStatusDraft {
			mo.Status = entity.MOStatusConfirmed
		}
		mo.UpdatedAt = now
		return orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", orderID).
		Int("work_orders", len(generated)).
		Str("actor", actor).
		Msg("work orders generadas")
	return generated, nil
}

// advanceNext localiza la WO siguiente a la completada por
// (manufacturingOrderID, sequence+1) en Pending y la pasa a Ready.
// Devuelve nil si no existe: es lo normal en la última operación, no un error.
func advanceNext(workOrders repository.WorkOrderRepository, completed *entity.WorkOrder) (*entity.WorkOrder, error) {
	next, err := workOrders.GetByOrderAndSequence(completed.ManufacturingOrderID, completed.Sequence+1)
	if err != nil {
		return nil, err
	}
	if next == nil || next.Status != entity.WOStatusPending {
		return nil, nil
	}
	next.Status = entity.WOStatusReady
	next.UpdatedAt = time.Now()
	if err := workOrders.Update(next); err != nil {
		return nil, err
	}
	return next, nil
}
