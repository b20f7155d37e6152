package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// OrderUseCase crea y consulta órdenes de fabricación. Al crear desde un
// BOM toma el snapshot denormalizado de componentes: ediciones posteriores
// del BOM no afectan órdenes ya creadas.
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.ManufacturingOrderRepository
	woRepo    repository.WorkOrderRepository
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso de órdenes. orderRepo y woRepo
// van atados al pool (solo lecturas); las escrituras pasan por txRunner.
func NewOrderUseCase(txRunner TxRunner, orderRepo repository.ManufacturingOrderRepository, woRepo repository.WorkOrderRepository, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orderRepo: orderRepo, woRepo: woRepo, log: log}
}

// CreateOrderInput entrada para crear una orden de fabricación.
type CreateOrderInput struct {
	CompanyID        string
	BOMID            string
	Quantity         decimal.Decimal
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	Actor            string
}

// CreateOrder crea una MO en Draft desde un BOM activo: resuelve la receta
// para la cantidad pedida y congela los componentes como snapshot propio.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.ManufacturingOrder, error) {
	if in.CompanyID == "" || in.BOMID == "" || in.Actor == "" || in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var mo *entity.ManufacturingOrder
	err := uc.txRunner.RunManufacturing(ctx, func(
		_ repository.MaterialRepository,
		_ repository.StockLedgerRepository,
		orders repository.ManufacturingOrderRepository,
		_ repository.WorkOrderRepository,
		boms repository.BOMRepository,
	) error {
		bom, err := boms.GetByID(in.BOMID)
		if err != nil {
			return err
		}
		if bom == nil {
			return domain.ErrNotFound
		}
		if bom.CompanyID != in.CompanyID {
			return domain.ErrForbidden
		}

		reqs, err := manufacturing.ResolveBOM(bom, in.Quantity)
		if err != nil {
			return err
		}

		components := make([]entity.MOComponent, 0, len(reqs.Components))
		for _, r := range reqs.Components {
			components = append(components, entity.MOComponent{
				MaterialID:       r.MaterialID,
				QuantityRequired: r.Quantity,
				QuantityReserved: decimal.Zero,
				QuantityConsumed: decimal.Zero,
				UnitCost:         r.UnitCost,
				WastePercent:     r.WastePercent,
			})
		}

		number, err := orders.NextNumber(in.CompanyID)
		if err != nil {
			return err
		}

		now := time.Now()
		mo = &entity.ManufacturingOrder{
			ID:                uuid.New().String(),
			CompanyID:         in.CompanyID,
			Number:            number,
			ProductName:       bom.ProductName,
			ProductMaterialID: bom.ProductMaterialID,
			BOMID:             bom.ID,
			Quantity:          in.Quantity,
			Status:            entity.MOStatusDraft,
			Components:        components,
			PlannedStartDate:  in.PlannedStartDate,
			PlannedEndDate:    in.PlannedEndDate,
			CreatedBy:         in.Actor,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return orders.Create(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// GetOrder devuelve una orden por ID, validando pertenencia a la empresa.
func (uc *OrderUseCase) GetOrder(ctx context.Context, companyID, orderID string) (*entity.ManufacturingOrder, error) {
	mo, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, domain.ErrNotFound
	}
	if mo.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return mo, nil
}

// ListOrders lista las órdenes de una empresa (paginado).
func (uc *OrderUseCase) ListOrders(ctx context.Context, companyID string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	return uc.orderRepo.ListByCompany(companyID, limit, offset)
}

// ListWorkOrders devuelve las work orders de una orden, por secuencia.
func (uc *OrderUseCase) ListWorkOrders(ctx context.Context, companyID, orderID string) ([]*entity.WorkOrder, error) {
	mo, err := uc.GetOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	return uc.woRepo.ListByOrder(mo.ID)
}
