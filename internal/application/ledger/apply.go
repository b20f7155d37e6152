package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Event describe una mutación de stock a aplicar sobre un material.
// UnitCost solo es relevante en IN (recalcula el promedio ponderado).
// CompanyID, si no está vacío, exige que el material pertenezca a esa
// empresa (las rutas internas del motor ya validaron la orden y lo omiten).
type Event struct {
	MaterialID  string
	CompanyID   string
	Type        string // entity.TransactionType*
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Reference   string
	PerformedBy string
}

// Apply es la única ruta permitida para tocar los contadores del Material
// y el stock_ledger: muta OnHand/Reserved según el tipo de evento y deja
// exactamente una transacción de auditoría. Debe invocarse dentro de una
// transacción de BD (los repos recibidos van atados a la tx) con la fila
// del material ya bloqueada (GetForUpdate).
//
// Reglas por tipo:
//   - IN: suma OnHand y recalcula costo promedio ponderado.
//   - OUT: resta OnHand, recortado en cero (tolera deriva de redondeo; el
//     recorte se registra en el log, no es error).
//   - ADJUSTMENT: fija OnHand al valor absoluto de Quantity.
//   - RESERVE: suma Reserved; falla con ErrInsufficientStock si
//     Quantity > Available.
//   - UNRESERVE: resta Reserved, recortado en cero.
//
// Tras cualquier aplicación exitosa se cumple 0 <= Reserved <= OnHand.
func Apply(
	log zerolog.Logger,
	materials repository.MaterialRepository,
	stockLedger repository.StockLedgerRepository,
	ev Event,
) (*entity.StockTransaction, error) {
	mat, err := materials.GetForUpdate(ev.MaterialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, domain.ErrNotFound
	}
	if ev.CompanyID != "" && mat.CompanyID != ev.CompanyID {
		return nil, domain.ErrForbidden
	}

	unitCost := ev.UnitCost
	switch ev.Type {
	case entity.TransactionTypeIN:
		if ev.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		mat.Cost = manufacturing.WeightedAverageCost(mat.OnHand, mat.Cost, ev.Quantity, ev.UnitCost)
		mat.OnHand = mat.OnHand.Add(ev.Quantity)

	case entity.TransactionTypeOUT:
		if ev.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		newOnHand := mat.OnHand.Sub(ev.Quantity)
		if newOnHand.LessThan(decimal.Zero) {
			// Recorte en cero: deriva de redondeo tolerada, pero queda rastro.
			log.Warn().
				Str("material_id", mat.ID).
				Str("on_hand", mat.OnHand.String()).
				Str("quantity", ev.Quantity.String()).
				Str("reference", ev.Reference).
				Msg("salida mayor que el stock físico; OnHand recortado en cero")
			newOnHand = decimal.Zero
		}
		mat.OnHand = newOnHand
		unitCost = mat.Cost

	case entity.TransactionTypeADJUSTMENT:
		newOnHand := ev.Quantity
		if newOnHand.LessThan(decimal.Zero) {
			log.Warn().
				Str("material_id", mat.ID).
				Str("quantity", ev.Quantity.String()).
				Msg("ajuste negativo; OnHand recortado en cero")
			newOnHand = decimal.Zero
		}
		mat.OnHand = newOnHand
		unitCost = mat.Cost

	case entity.TransactionTypeRESERVE:
		if ev.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if ev.Quantity.GreaterThan(mat.Available()) {
			return nil, domain.ErrInsufficientStock
		}
		mat.Reserved = mat.Reserved.Add(ev.Quantity)

	case entity.TransactionTypeUNRESERVE:
		if ev.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		newReserved := mat.Reserved.Sub(ev.Quantity)
		if newReserved.LessThan(decimal.Zero) {
			log.Warn().
				Str("material_id", mat.ID).
				Str("reserved", mat.Reserved.String()).
				Str("quantity", ev.Quantity.String()).
				Msg("liberación mayor que lo apartado; Reserved recortado en cero")
			newReserved = decimal.Zero
		}
		mat.Reserved = newReserved

	default:
		return nil, domain.ErrInvalidInput
	}

	// OUT/ADJUSTMENT pueden dejar OnHand por debajo de Reserved; el
	// invariante Reserved <= OnHand se restablece recortando Reserved.
	if mat.Reserved.GreaterThan(mat.OnHand) {
		log.Warn().
			Str("material_id", mat.ID).
			Str("reserved", mat.Reserved.String()).
			Str("on_hand", mat.OnHand.String()).
			Msg("Reserved quedó por encima de OnHand; recortado")
		mat.Reserved = mat.OnHand
	}

	now := time.Now()
	mat.UpdatedAt = now
	if err := materials.Update(mat); err != nil {
		return nil, err
	}

	tx := &entity.StockTransaction{
		ID:          uuid.New().String(),
		MaterialID:  mat.ID,
		Type:        ev.Type,
		Quantity:    ev.Quantity,
		UnitCost:    unitCost,
		Reference:   ev.Reference,
		PerformedBy: ev.PerformedBy,
		CreatedAt:   now,
	}
	if err := stockLedger.Append(tx); err != nil {
		// Contadores y libro viajan en la misma tx de BD: el rollback del
		// caller deshace ambos. Aun así se registra fuerte por si la
		// persistencia no es transaccional.
		log.Error().Err(err).
			Str("material_id", mat.ID).
			Str("type", ev.Type).
			Msg("fallo al anexar transacción al stock_ledger")
		return nil, err
	}
	return tx, nil
}
