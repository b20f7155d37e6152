package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type workOrderRepository struct {
	q Querier
}

// NewWorkOrderRepository crea el repositorio de work orders. Las líneas de
// material van como JSONB; las duraciones se guardan en nanosegundos (BIGINT).
func NewWorkOrderRepository(q Querier) repository.WorkOrderRepository {
	return &workOrderRepository{q: q}
}

// woMaterialRow es la forma JSONB de una línea de material de la WO.
type woMaterialRow struct {
	MaterialID       string          `json:"material_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	QuantityScrapped decimal.Decimal `json:"quantity_scrapped"`
}

const woColumns = `id, company_id, manufacturing_order_id, sequence, name, work_center,
	status, quality_check, materials,
	expected_duration, setup_time, real_duration, paused_time,
	assigned_to, started_at, paused_at, completed_at,
	version, created_at, updated_at`

func (r *workOrderRepository) Create(wo *entity.WorkOrder) error {
	materials, err := marshalWOMaterials(wo.Materials)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO work_orders (id, company_id, manufacturing_order_id, sequence, name, work_center,
			status, quality_check, materials,
			expected_duration, setup_time, real_duration, paused_time,
			assigned_to, started_at, paused_at, completed_at,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(context.Background(), query,
		wo.ID, wo.CompanyID, wo.ManufacturingOrderID, wo.Sequence, wo.Name, wo.WorkCenter,
		wo.Status, wo.QualityCheck, materials,
		int64(wo.ExpectedDuration), int64(wo.SetupTime), int64(wo.RealDuration), int64(wo.PausedTime),
		wo.AssignedTo, wo.StartedAt, wo.PausedAt, wo.CompletedAt,
		wo.Version, wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insertar work order: %w", err)
	}
	return nil
}

func (r *workOrderRepository) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *workOrderRepository) Update(wo *entity.WorkOrder) error {
	materials, err := marshalWOMaterials(wo.Materials)
	if err != nil {
		return err
	}
	query := `
		UPDATE work_orders
		SET status = $1, materials = $2,
			real_duration = $3, paused_time = $4,
			assigned_to = $5, started_at = $6, paused_at = $7, completed_at = $8,
			version = version + 1, updated_at = $9
		WHERE id = $10 AND version = $11`
	tag, err := r.q.Exec(context.Background(), query,
		wo.Status, materials,
		int64(wo.RealDuration), int64(wo.PausedTime),
		wo.AssignedTo, wo.StartedAt, wo.PausedAt, wo.CompletedAt,
		wo.UpdatedAt, wo.ID, wo.Version,
	)
	if err != nil {
		return fmt.Errorf("actualizar work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	wo.Version++
	return nil
}

func (r *workOrderRepository) ListByOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error) {
	query := `
		SELECT ` + woColumns + `
		FROM work_orders
		WHERE manufacturing_order_id = $1
		ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, manufacturingOrderID)
	if err != nil {
		return nil, fmt.Errorf("listar work orders: %w", err)
	}
	defer rows.Close()

	var wos []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		wos = append(wos, wo)
	}
	return wos, rows.Err()
}

func (r *workOrderRepository) GetByOrderAndSequence(manufacturingOrderID string, sequence int) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE manufacturing_order_id = $1 AND sequence = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, manufacturingOrderID, sequence))
}

func (r *workOrderRepository) scanOne(row pgx.Row) (*entity.WorkOrder, error) {
	wo, err := scanWorkOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return wo, nil
}

func marshalWOMaterials(materials []entity.WOMaterial) ([]byte, error) {
	rows := make([]woMaterialRow, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, woMaterialRow(m))
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("serializar materiales: %w", err)
	}
	return data, nil
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	var materials []byte
	var expected, setup, real, paused int64
	err := row.Scan(
		&wo.ID, &wo.CompanyID, &wo.ManufacturingOrderID, &wo.Sequence, &wo.Name, &wo.WorkCenter,
		&wo.Status, &wo.QualityCheck, &materials,
		&expected, &setup, &real, &paused,
		&wo.AssignedTo, &wo.StartedAt, &wo.PausedAt, &wo.CompletedAt,
		&wo.Version, &wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	wo.ExpectedDuration = time.Duration(expected)
	wo.SetupTime = time.Duration(setup)
	wo.RealDuration = time.Duration(real)
	wo.PausedTime = time.Duration(paused)

	var matRows []woMaterialRow
	if err := json.Unmarshal(materials, &matRows); err != nil {
		return nil, fmt.Errorf("deserializar materiales: %w", err)
	}
	for _, m := range matRows {
		wo.Materials = append(wo.Materials, entity.WOMaterial(m))
	}
	return &wo, nil
}
