package dto

import "github.com/shopspring/decimal"

// BOMComponentDTO componente de la receta (cantidad por unidad de producto).
type BOMComponentDTO struct {
	MaterialID      string          `json:"material_id" validate:"required,uuid"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	WastePercent    decimal.Decimal `json:"waste_percent"` // 10 = 10%
}

// BOMOperationDTO operación secuenciada de la receta.
type BOMOperationDTO struct {
	Sequence        int    `json:"sequence"`
	Name            string `json:"name" validate:"required,max=200"`
	WorkCenter      string `json:"work_center,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	SetupMinutes    int    `json:"setup_minutes"`
	QualityCheck    bool   `json:"quality_check"`
}

// CreateBOMRequest body para POST /api/boms.
type CreateBOMRequest struct {
	ProductName       string            `json:"product_name" validate:"required,max=200"`
	ProductMaterialID string            `json:"product_material_id,omitempty"`
	Components        []BOMComponentDTO `json:"components"`
	Operations        []BOMOperationDTO `json:"operations"`
}

// UpdateBOMRequest body para PUT /api/boms/:id (solo en borrador).
type UpdateBOMRequest struct {
	Components []BOMComponentDTO `json:"components"`
	Operations []BOMOperationDTO `json:"operations"`
}
