package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type bomRepository struct {
	q Querier
}

// NewBOMRepository crea el repositorio de listas de materiales. Componentes
// y operaciones se persisten como JSONB junto con la cabecera: un BOM activo
// es un snapshot congelado, no hay lecturas parciales de sus líneas.
func NewBOMRepository(q Querier) repository.BOMRepository {
	return &bomRepository{q: q}
}

// bomComponentRow / bomOperationRow son la forma JSONB de las líneas del BOM.
type bomComponentRow struct {
	MaterialID      string          `json:"material_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	WastePercent    decimal.Decimal `json:"waste_percent"`
}

type bomOperationRow struct {
	Sequence         int           `json:"sequence"`
	Name             string        `json:"name"`
	WorkCenter       string        `json:"work_center"`
	ExpectedDuration time.Duration `json:"expected_duration"`
	SetupTime        time.Duration `json:"setup_time"`
	QualityCheck     bool          `json:"quality_check"`
}

func (r *bomRepository) Create(bom *entity.BillOfMaterials) error {
	components, operations, err := marshalBOMLines(bom)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO boms (id, company_id, product_name, product_material_id, status,
			components, operations, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		bom.ID, bom.CompanyID, bom.ProductName, bom.ProductMaterialID, bom.Status,
		components, operations, bom.CreatedBy, bom.CreatedAt, bom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar BOM: %w", err)
	}
	return nil
}

func (r *bomRepository) GetByID(id string) (*entity.BillOfMaterials, error) {
	query := `
		SELECT id, company_id, product_name, product_material_id, status,
			components, operations, created_by, created_at, updated_at
		FROM boms WHERE id = $1`
	bom, err := scanBOM(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bom, nil
}

func (r *bomRepository) Update(bom *entity.BillOfMaterials) error {
	components, operations, err := marshalBOMLines(bom)
	if err != nil {
		return err
	}
	query := `
		UPDATE boms
		SET product_name = $1, product_material_id = $2, status = $3,
			components = $4, operations = $5, updated_at = $6
		WHERE id = $7`
	_, err = r.q.Exec(context.Background(), query,
		bom.ProductName, bom.ProductMaterialID, bom.Status,
		components, operations, bom.UpdatedAt, bom.ID,
	)
	if err != nil {
		return fmt.Errorf("actualizar BOM: %w", err)
	}
	return nil
}

func (r *bomRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.BillOfMaterials, error) {
	query := `
		SELECT id, company_id, product_name, product_material_id, status,
			components, operations, created_by, created_at, updated_at
		FROM boms
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar BOMs: %w", err)
	}
	defer rows.Close()

	var boms []*entity.BillOfMaterials
	for rows.Next() {
		bom, err := scanBOM(rows)
		if err != nil {
			return nil, err
		}
		boms = append(boms, bom)
	}
	return boms, rows.Err()
}

func marshalBOMLines(bom *entity.BillOfMaterials) ([]byte, []byte, error) {
	compRows := make([]bomComponentRow, 0, len(bom.Components))
	for _, c := range bom.Components {
		compRows = append(compRows, bomComponentRow(c))
	}
	opRows := make([]bomOperationRow, 0, len(bom.Operations))
	for _, op := range bom.Operations {
		opRows = append(opRows, bomOperationRow(op))
	}
	components, err := json.Marshal(compRows)
	if err != nil {
		return nil, nil, fmt.Errorf("serializar componentes: %w", err)
	}
	operations, err := json.Marshal(opRows)
	if err != nil {
		return nil, nil, fmt.Errorf("serializar operaciones: %w", err)
	}
	return components, operations, nil
}

func scanBOM(row pgx.Row) (*entity.BillOfMaterials, error) {
	var bom entity.BillOfMaterials
	var components, operations []byte
	err := row.Scan(
		&bom.ID, &bom.CompanyID, &bom.ProductName, &bom.ProductMaterialID, &bom.Status,
		&components, &operations, &bom.CreatedBy, &bom.CreatedAt, &bom.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var compRows []bomComponentRow
	if err := json.Unmarshal(components, &compRows); err != nil {
		return nil, fmt.Errorf("deserializar componentes: %w", err)
	}
	for _, c := range compRows {
		bom.Components = append(bom.Components, entity.BOMComponent(c))
	}

	var opRows []bomOperationRow
	if err := json.Unmarshal(operations, &opRows); err != nil {
		return nil, fmt.Errorf("deserializar operaciones: %w", err)
	}
	for _, op := range opRows {
		bom.Operations = append(bom.Operations, entity.BOMOperation(op))
	}
	return &bom, nil
}
