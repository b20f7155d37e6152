package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una lista de materiales (BOM).
// Solo un BOM en Draft es editable; al activarse queda congelado como
// snapshot referenciable por órdenes de fabricación.
const (
	BOMStatusDraft    = "DRAFT"
	BOMStatusActive   = "ACTIVE"
	BOMStatusArchived = "ARCHIVED"
)

// BillOfMaterials es la receta de un producto terminado: componentes por
// unidad y operaciones secuenciadas de producción.
type BillOfMaterials struct {
	ID                string
	CompanyID         string
	ProductName       string
	ProductMaterialID string // material del producto terminado (recepción al completar la MO)
	Status            string
	Components        []BOMComponent
	Operations        []BOMOperation
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BOMComponent es un material requerido por unidad de producto terminado.
type BOMComponent struct {
	MaterialID      string
	QuantityPerUnit decimal.Decimal // cantidad por unidad de producto
	UnitCost        decimal.Decimal
	WastePercent    decimal.Decimal // % adicional por merma (ej. 10 = 10%)
}

// BOMOperation es una operación de producción (ej. "Soldadura") con su
// secuencia dentro de la receta. Los números de secuencia son únicos y
// totalmente ordenados dentro de un BOM.
type BOMOperation struct {
	Sequence         int
	Name             string
	WorkCenter       string
	ExpectedDuration time.Duration
	SetupTime        time.Duration
	QualityCheck     bool
}
