package memory

import (
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type stockLedgerRepository struct {
	s *Store
}

func (r *stockLedgerRepository) Append(tx *entity.StockTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *tx
	r.s.ledger = append(r.s.ledger, &c)
	return nil
}

func (r *stockLedgerRepository) GetByID(id string) (*entity.StockTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, tx := range r.s.ledger {
		if tx.ID == id {
			c := *tx
			return &c, nil
		}
	}
	return nil, nil
}

func (r *stockLedgerRepository) ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var txs []*entity.StockTransaction
	for _, tx := range r.s.ledger {
		if tx.MaterialID != materialID {
			continue
		}
		if from != nil && tx.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && tx.CreatedAt.After(*to) {
			continue
		}
		c := *tx
		txs = append(txs, &c)
	}
	// Más reciente primero, como el adaptador SQL.
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
	return paginate(txs, limit, offset), nil
}

func (r *stockLedgerRepository) ListByReference(reference string) ([]*entity.StockTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var txs []*entity.StockTransaction
	for _, tx := range r.s.ledger {
		if tx.Reference == reference {
			c := *tx
			txs = append(txs, &c)
		}
	}
	return txs, nil
}
