package manufacturing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Requirement es un componente del BOM escalado a la cantidad de la orden.
// Quantity NO incluye la merma: el % de merma se aplica al reservar.
type Requirement struct {
	MaterialID   string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	WastePercent decimal.Decimal
}

// Requirements es el resultado de resolver un BOM para una orden:
// componentes escalados y operaciones ordenadas por secuencia.
type Requirements struct {
	Components []Requirement
	Operations []entity.BOMOperation
}

// ResolveBOM expande un BOM a la lista concreta de componentes requeridos
// (cantidad por unidad * cantidad de la orden) y las operaciones ordenadas
// por secuencia ascendente. Función pura: sin efectos secundarios ni I/O.
// Falla con ErrInvalidBOM si el BOM no tiene operaciones o tiene números
// de secuencia duplicados.
func ResolveBOM(bom *entity.BillOfMaterials, orderQuantity decimal.Decimal) (*Requirements, error) {
	if bom == nil || orderQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if len(bom.Operations) == 0 {
		return nil, domain.ErrInvalidBOM
	}
	seen := make(map[int]bool, len(bom.Operations))
	for _, op := range bom.Operations {
		if seen[op.Sequence] {
			return nil, domain.ErrInvalidBOM
		}
		seen[op.Sequence] = true
	}

	reqs := make([]Requirement, 0, len(bom.Components))
	for _, c := range bom.Components {
		reqs = append(reqs, Requirement{
			MaterialID:   c.MaterialID,
			Quantity:     c.QuantityPerUnit.Mul(orderQuantity),
			UnitCost:     c.UnitCost,
			WastePercent: c.WastePercent,
		})
	}

	ops := make([]entity.BOMOperation, len(bom.Operations))
	copy(ops, bom.Operations)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Sequence < ops[j].Sequence })

	return &Requirements{Components: reqs, Operations: ops}, nil
}

// QuantityWithWaste devuelve la cantidad a reservar: requerido * (1 + merma/100).
func QuantityWithWaste(required, wastePercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(wastePercent.Div(decimal.NewFromInt(100)))
	return required.Mul(factor)
}
