package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// UseCase expone las operaciones del libro mayor de materiales:
// ajustes de stock, apartados y liberaciones. Cada operación corre en su
// propia transacción de BD (TxRunner) y devuelve la transacción de
// auditoría que dejó en el stock_ledger.
type UseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewUseCase construye el caso de uso del libro mayor.
func NewUseCase(txRunner TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, log: log}
}

// AdjustInput entrada para AdjustStock.
type AdjustInput struct {
	MaterialID string
	CompanyID  string
	Type       string // IN | OUT | ADJUSTMENT
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // obligatorio en IN
	Reference  string
	Actor      string
}

// AdjustStock muta OnHand según el tipo (IN suma y recalcula costo
// promedio; OUT resta recortado en cero; ADJUSTMENT fija valor absoluto).
func (uc *UseCase) AdjustStock(ctx context.Context, in AdjustInput) (*entity.StockTransaction, error) {
	switch in.Type {
	case entity.TransactionTypeIN, entity.TransactionTypeOUT, entity.TransactionTypeADJUSTMENT:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.MaterialID == "" || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == entity.TransactionTypeIN && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var tx *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, stockLedger repository.StockLedgerRepository) error {
		var err error
		tx, err = Apply(uc.log.Zerolog(), materials, stockLedger, Event{
			MaterialID:  in.MaterialID,
			CompanyID:   in.CompanyID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Reference:   in.Reference,
			PerformedBy: in.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Reserve aparta cantidad de un material (sube Reserved sin tocar OnHand).
// Falla con ErrInsufficientStock si la cantidad supera el disponible.
func (uc *UseCase) Reserve(ctx context.Context, companyID, materialID string, quantity decimal.Decimal, reference, actor string) (*entity.StockTransaction, error) {
	return uc.runEvent(ctx, Event{
		MaterialID:  materialID,
		CompanyID:   companyID,
		Type:        entity.TransactionTypeRESERVE,
		Quantity:    quantity,
		Reference:   reference,
		PerformedBy: actor,
	})
}

// Unreserve libera un apartado (baja Reserved, recortado en cero).
func (uc *UseCase) Unreserve(ctx context.Context, companyID, materialID string, quantity decimal.Decimal, reference, actor string) (*entity.StockTransaction, error) {
	return uc.runEvent(ctx, Event{
		MaterialID:  materialID,
		CompanyID:   companyID,
		Type:        entity.TransactionTypeUNRESERVE,
		Quantity:    quantity,
		Reference:   reference,
		PerformedBy: actor,
	})
}

func (uc *UseCase) runEvent(ctx context.Context, ev Event) (*entity.StockTransaction, error) {
	if ev.MaterialID == "" || ev.PerformedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	var tx *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, stockLedger repository.StockLedgerRepository) error {
		var err error
		tx, err = Apply(uc.log.Zerolog(), materials, stockLedger, ev)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
