package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type stockLedgerRepository struct {
	q Querier
}

// NewStockLedgerRepository crea el repositorio del libro de inventario
// (append-only: las transacciones nunca se actualizan ni borran).
func NewStockLedgerRepository(q Querier) repository.StockLedgerRepository {
	return &stockLedgerRepository{q: q}
}

const stockTxColumns = `id, material_id, type, quantity, unit_cost, reference, performed_by, created_at`

func (r *stockLedgerRepository) Append(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_ledger (id, material_id, type, quantity, unit_cost, reference, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.MaterialID, tx.Type, tx.Quantity, tx.UnitCost,
		tx.Reference, tx.PerformedBy, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar transacción de stock: %w", err)
	}
	return nil
}

func (r *stockLedgerRepository) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + ` FROM stock_ledger WHERE id = $1`
	tx, err := scanStockTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

func (r *stockLedgerRepository) ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + ` FROM stock_ledger WHERE material_id = $1`
	args := []any{materialID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	defer rows.Close()
	return collectStockTransactions(rows)
}

func (r *stockLedgerRepository) ListByReference(reference string) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + stockTxColumns + ` FROM stock_ledger WHERE reference = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, reference)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones por referencia: %w", err)
	}
	defer rows.Close()
	return collectStockTransactions(rows)
}

func collectStockTransactions(rows pgx.Rows) ([]*entity.StockTransaction, error) {
	var txs []*entity.StockTransaction
	for rows.Next() {
		tx, err := scanStockTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanStockTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var tx entity.StockTransaction
	err := row.Scan(
		&tx.ID, &tx.MaterialID, &tx.Type, &tx.Quantity, &tx.UnitCost,
		&tx.Reference, &tx.PerformedBy, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
