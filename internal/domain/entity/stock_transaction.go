package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	TransactionTypeIN         = "IN"         // entrada de stock
	TransactionTypeOUT        = "OUT"        // salida / consumo
	TransactionTypeADJUSTMENT = "ADJUSTMENT" // ajuste a valor absoluto
	TransactionTypeRESERVE    = "RESERVE"    // apartado para una orden
	TransactionTypeUNRESERVE  = "UNRESERVE"  // liberación de un apartado
)

// StockTransaction es un registro inmutable del libro de inventario (stock_ledger).
// Toda operación del motor que afecta stock debe dejar exactamente una
// transacción aquí además de mutar los contadores del Material: es la
// pista de auditoría y no se omite ni en rutas de fallo parcial.
type StockTransaction struct {
	ID          string
	MaterialID  string
	Type        string // IN | OUT | ADJUSTMENT | RESERVE | UNRESERVE
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Reference   string // orden, work order o motivo que originó el movimiento
	PerformedBy string // id del actor autenticado
	CreatedAt   time.Time
}
