package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type manufacturingOrderRepository struct {
	q Querier
}

// NewManufacturingOrderRepository crea el repositorio de órdenes de
// fabricación. El snapshot de componentes viaja como JSONB; la lista de
// work orders como text[] en el orden de secuencia.
func NewManufacturingOrderRepository(q Querier) repository.ManufacturingOrderRepository {
	return &manufacturingOrderRepository{q: q}
}

// moComponentRow es la forma JSONB de una línea de componente de la orden.
type moComponentRow struct {
	MaterialID       string          `json:"material_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	QuantityReserved decimal.Decimal `json:"quantity_reserved"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	WastePercent     decimal.Decimal `json:"waste_percent"`
}

const moColumns = `id, company_id, number, product_name, product_material_id, bom_id,
	quantity, status, progress, components, work_order_ids,
	planned_start_date, planned_end_date, actual_start_date, actual_end_date,
	cancel_reason, version, created_by, created_at, updated_at`

func (r *manufacturingOrderRepository) Create(mo *entity.ManufacturingOrder) error {
	components, err := marshalMOComponents(mo.Components)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO manufacturing_orders (id, company_id, number, product_name, product_material_id, bom_id,
			quantity, status, progress, components, work_order_ids,
			planned_start_date, planned_end_date, actual_start_date, actual_end_date,
			cancel_reason, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(context.Background(), query,
		mo.ID, mo.CompanyID, mo.Number, mo.ProductName, mo.ProductMaterialID, mo.BOMID,
		mo.Quantity, mo.Status, mo.Progress, components, mo.WorkOrderIDs,
		mo.PlannedStartDate, mo.PlannedEndDate, mo.ActualStartDate, mo.ActualEndDate,
		mo.CancelReason, mo.Version, mo.CreatedBy, mo.CreatedAt, mo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insertar orden de fabricación: %w", err)
	}
	return nil
}

func (r *manufacturingOrderRepository) GetByID(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila de la orden hasta el fin de la transacción:
// generación de WOs, reservas y cierres sobre la misma orden se serializan.
func (r *manufacturingOrderRepository) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *manufacturingOrderRepository) Update(mo *entity.ManufacturingOrder) error {
	components, err := marshalMOComponents(mo.Components)
	if err != nil {
		return err
	}
	query := `
		UPDATE manufacturing_orders
		SET status = $1, progress = $2, components = $3, work_order_ids = $4,
			planned_start_date = $5, planned_end_date = $6,
			actual_start_date = $7, actual_end_date = $8,
			cancel_reason = $9, version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12`
	tag, err := r.q.Exec(context.Background(), query,
		mo.Status, mo.Progress, components, mo.WorkOrderIDs,
		mo.PlannedStartDate, mo.PlannedEndDate,
		mo.ActualStartDate, mo.ActualEndDate,
		mo.CancelReason, mo.UpdatedAt, mo.ID, mo.Version,
	)
	if err != nil {
		return fmt.Errorf("actualizar orden de fabricación: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	mo.Version++
	return nil
}

func (r *manufacturingOrderRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	query := `
		SELECT ` + moColumns + `
		FROM manufacturing_orders
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes de fabricación: %w", err)
	}
	defer rows.Close()

	var orders []*entity.ManufacturingOrder
	for rows.Next() {
		mo, err := scanManufacturingOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, mo)
	}
	return orders, rows.Err()
}

// NextNumber genera el siguiente consecutivo legible por empresa (MO-0001).
// Cuenta sobre la tabla dentro de la tx del caller; la unicidad la garantiza
// el índice único (company_id, number).
func (r *manufacturingOrderRepository) NextNumber(companyID string) (string, error) {
	var count int64
	query := `SELECT COUNT(*) FROM manufacturing_orders WHERE company_id = $1`
	if err := r.q.QueryRow(context.Background(), query, companyID).Scan(&count); err != nil {
		return "", fmt.Errorf("contar órdenes: %w", err)
	}
	return fmt.Sprintf("MO-%04d", count+1), nil
}

func (r *manufacturingOrderRepository) scanOne(row pgx.Row) (*entity.ManufacturingOrder, error) {
	mo, err := scanManufacturingOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return mo, nil
}

func marshalMOComponents(components []entity.MOComponent) ([]byte, error) {
	rows := make([]moComponentRow, 0, len(components))
	for _, c := range components {
		rows = append(rows, moComponentRow(c))
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("serializar componentes: %w", err)
	}
	return data, nil
}

func scanManufacturingOrder(row pgx.Row) (*entity.ManufacturingOrder, error) {
	var mo entity.ManufacturingOrder
	var components []byte
	err := row.Scan(
		&mo.ID, &mo.CompanyID, &mo.Number, &mo.ProductName, &mo.ProductMaterialID, &mo.BOMID,
		&mo.Quantity, &mo.Status, &mo.Progress, &components, &mo.WorkOrderIDs,
		&mo.PlannedStartDate, &mo.PlannedEndDate, &mo.ActualStartDate, &mo.ActualEndDate,
		&mo.CancelReason, &mo.Version, &mo.CreatedBy, &mo.CreatedAt, &mo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var compRows []moComponentRow
	if err := json.Unmarshal(components, &compRows); err != nil {
		return nil, fmt.Errorf("deserializar componentes: %w", err)
	}
	for _, c := range compRows {
		mo.Components = append(mo.Components, entity.MOComponent(c))
	}
	return &mo, nil
}
