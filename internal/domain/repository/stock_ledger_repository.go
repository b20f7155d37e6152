package repository

import (
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockLedgerRepository define el puerto del libro de inventario
// (append-only). Toda mutación de stock deja exactamente una transacción.
type StockLedgerRepository interface {
	Append(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	ListByReference(reference string) ([]*entity.StockTransaction, error)
}
