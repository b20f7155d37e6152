package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/manufacturing-orders.
type CreateOrderRequest struct {
	BOMID            string          `json:"bom_id" validate:"required,uuid"`
	Quantity         decimal.Decimal `json:"quantity"`
	PlannedStartDate *time.Time      `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time      `json:"planned_end_date,omitempty"`
}

// CancelOrderRequest body para POST /api/manufacturing-orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// MOComponentResponse línea de componente de la orden.
type MOComponentResponse struct {
	MaterialID       string          `json:"material_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	QuantityReserved decimal.Decimal `json:"quantity_reserved"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	WastePercent     decimal.Decimal `json:"waste_percent"`
}

// OrderResponse salida de una orden de fabricación.
type OrderResponse struct {
	ID                string                `json:"id"`
	Number            string                `json:"number"`
	ProductName       string                `json:"product_name"`
	ProductMaterialID string                `json:"product_material_id,omitempty"`
	BOMID             string                `json:"bom_id"`
	Quantity          decimal.Decimal       `json:"quantity"`
	Status            string                `json:"status"`
	Progress          int                   `json:"progress"`
	Components        []MOComponentResponse `json:"components"`
	WorkOrderIDs      []string              `json:"work_order_ids"`
	ActualStartDate   *time.Time            `json:"actual_start_date,omitempty"`
	ActualEndDate     *time.Time            `json:"actual_end_date,omitempty"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ConsumedLineDTO consumo real reportado al completar una work order.
type ConsumedLineDTO struct {
	MaterialID       string          `json:"material_id" validate:"required,uuid"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	QuantityScrapped decimal.Decimal `json:"quantity_scrapped"`
}

// CompleteWorkOrderRequest body para POST /api/work-orders/:id/complete.
type CompleteWorkOrderRequest struct {
	Consumed []ConsumedLineDTO `json:"consumed,omitempty"`
}

// WOMaterialResponse línea de material de una work order.
type WOMaterialResponse struct {
	MaterialID       string          `json:"material_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	QuantityConsumed decimal.Decimal `json:"quantity_consumed"`
	QuantityScrapped decimal.Decimal `json:"quantity_scrapped"`
}

// WorkOrderResponse salida de una work order.
type WorkOrderResponse struct {
	ID                   string               `json:"id"`
	ManufacturingOrderID string               `json:"manufacturing_order_id"`
	Sequence             int                  `json:"sequence"`
	Name                 string               `json:"name"`
	WorkCenter           string               `json:"work_center,omitempty"`
	Status               string               `json:"status"`
	QualityCheck         bool                 `json:"quality_check"`
	Materials            []WOMaterialResponse `json:"materials,omitempty"`
	ExpectedMinutes      int                  `json:"expected_minutes"`
	SetupMinutes         int                  `json:"setup_minutes"`
	RealMinutes          int                  `json:"real_minutes"`
	PausedMinutes        int                  `json:"paused_minutes"`
	AssignedTo           string               `json:"assigned_to,omitempty"`
	StartedAt            *time.Time           `json:"started_at,omitempty"`
	CompletedAt          *time.Time           `json:"completed_at,omitempty"`
}
