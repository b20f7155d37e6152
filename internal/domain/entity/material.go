package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima o producto terminado del inventario.
// OnHand y Reserved son los contadores autoritativos; Available siempre se
// deriva (OnHand - Reserved), nunca se persiste.
// Cost es promedio ponderado, recalculado en cada entrada (IN).
type Material struct {
	ID          string
	CompanyID   string
	Code        string // código único por empresa
	Name        string
	Category    string
	UnitMeasure string          // unidad de medida: kg, m, unidad, etc.
	OnHand      decimal.Decimal // cantidad física presente
	Reserved    decimal.Decimal // cantidad apartada para órdenes en curso
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Version     int64           // bloqueo optimista
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available devuelve la cantidad disponible (OnHand - Reserved), nunca negativa.
func (m *Material) Available() decimal.Decimal {
	avail := m.OnHand.Sub(m.Reserved)
	if avail.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return avail
}
