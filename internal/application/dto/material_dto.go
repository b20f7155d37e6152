package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	UnitMeasure string `json:"unit_measure" validate:"omitempty,max=20"`
}

// AdjustStockRequest body para POST /api/materials/:id/adjust.
// Type: IN | OUT | ADJUSTMENT. UnitCost obligatorio en IN.
type AdjustStockRequest struct {
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// ReserveRequest body para POST /api/materials/:id/reserve y /unreserve.
type ReserveRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference,omitempty"`
}

// MaterialResponse salida de un material con su inventario.
type MaterialResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	UnitMeasure string          `json:"unit_measure"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"` // derivado: on_hand - reserved
	Cost        decimal.Decimal `json:"cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionResponse salida de una transacción del stock_ledger.
type TransactionResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Reference   string          `json:"reference,omitempty"`
	PerformedBy string          `json:"performed_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
