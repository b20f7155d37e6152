package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// ReservationUseCase aparta stock de materias primas contra una orden de
// fabricación confirmada, componente por componente.
type ReservationUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReservationUseCase construye el caso de uso de reservas.
func NewReservationUseCase(txRunner TxRunner, log *logger.Logger) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, log: log}
}

// ReserveForOrder aparta, para cada componente aún sin reservar, la
// cantidad requerida más merma: requerido * (1 + merma/100). Componentes ya
// reservados se saltan de forma idempotente.
//
// Política de fallo parcial (best-effort): se intentan todos los
// componentes; los que fallan se acumulan y al final se devuelve un
// *domain.ReservationIncompleteError con la lista completa, SIN deshacer
// los apartados que sí funcionaron. El caller decide reintentar o cancelar.
func (uc *ReservationUseCase) ReserveForOrder(ctx context.Context, companyID, orderID, actor string) ([]*entity.StockTransaction, error) {
	var txs []*entity.StockTransaction
	var failures []domain.ComponentFailure

	err := uc.txRunner.RunManufacturing(ctx, func(
		materials repository.MaterialRepository,
		stockLedger repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		_ repository.WorkOrderRepository,
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

		for i := range mo.Components {
			c := &mo.Components[i]
			if c.QuantityReserved.GreaterThan(decimal.Zero) {
				continue // ya reservado: idempotente
			}
			required := manufacturing.QuantityWithWaste(c.QuantityRequired, c.WastePercent)
			tx, err := ledger.Apply(uc.log.Zerolog(), materials, stockLedger, ledger.Event{
				MaterialID:  c.MaterialID,
				Type:        entity.TransactionTypeRESERVE,
				Quantity:    required,
				Reference:   mo.Number,
				PerformedBy: actor,
			})
			if err != nil {
				// No aborta: se siguen intentando los demás componentes y
				// los apartados logrados se conservan (no hay rollback).
				failures = append(failures, domain.ComponentFailure{MaterialID: c.MaterialID, Err: err})
				uc.log.Warn().Err(err).
					Str("order_id", mo.ID).
					Str("material_id", c.MaterialID).
					Str("required", required.String()).
					Msg("fallo al reservar componente")
				continue
			}
			c.QuantityReserved = required
			txs = append(txs, tx)
		}

		mo.UpdatedAt = time.Now()
		return orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		return txs, &domain.ReservationIncompleteError{OrderID: orderID, Failures: failures}
	}
	return txs, nil
}

// consumeForWorkOrder convierte los apartados en consumo real al completar
// una WO: por cada línea de material libera primero lo apartado (UNRESERVE)
// y luego registra la salida (OUT) por la cantidad consumida, que por
// defecto es la requerida. Actualiza el consumo de la línea y el acumulado
// del componente de la MO.
//
// La guarda contra doble consumo NO vive aquí: es la transición de estado
// de la WO (solo se llega aquí desde InProgress -> Completed).
// Los fallos por línea se acumulan y devuelven para que el caller los
// registre sin bloquear el cierre de la WO.
func consumeForWorkOrder(
	log zerolog.Logger,
	materials repository.MaterialRepository,
	stockLedger repository.StockLedgerRepository,
	mo *entity.ManufacturingOrder,
	wo *entity.WorkOrder,
	actor string,
) ([]*entity.StockTransaction, []error) {
	var txs []*entity.StockTransaction
	var errs []error

	for i := range wo.Materials {
		line := &wo.Materials[i]
		comp := mo.ComponentFor(line.MaterialID)

		// Liberar el apartado vigente antes de consumir.
		if comp != nil && comp.QuantityReserved.GreaterThan(decimal.Zero) {
			tx, err := ledger.Apply(log, materials, stockLedger, ledger.Event{
				MaterialID:  line.MaterialID,
				Type:        entity.TransactionTypeUNRESERVE,
				Quantity:    comp.QuantityReserved,
				Reference:   wo.ID,
				PerformedBy: actor,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("liberar apartado de %s: %w", line.MaterialID, err))
				continue
			}
			comp.QuantityReserved = decimal.Zero
			txs = append(txs, tx)
		}

		consumed := line.QuantityConsumed
		if consumed.IsZero() {
			consumed = line.QuantityRequired
		}
		tx, err := ledger.Apply(log, materials, stockLedger, ledger.Event{
			MaterialID:  line.MaterialID,
			Type:        entity.TransactionTypeOUT,
			Quantity:    consumed,
			Reference:   wo.ID,
			PerformedBy: actor,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("consumir %s: %w", line.MaterialID, err))
			continue
		}
		txs = append(txs, tx)

		line.QuantityConsumed = consumed
		if comp != nil {
			comp.QuantityConsumed = comp.QuantityConsumed.Add(consumed)
		}
	}
	return txs, errs
}
