package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). El motor nunca deja
// escapar errores crudos de la capa de persistencia: los handlers mapean
// estos errores a códigos HTTP estables.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidBOM             = errors.New("BOM inválido: sin operaciones o secuencias duplicadas")
	ErrBOMNotEditable         = errors.New("solo un BOM en borrador es editable")
	ErrAlreadyGenerated       = errors.New("la orden ya tiene work orders generadas")
	ErrNoBOM                  = errors.New("la orden no referencia un BOM")
	ErrEmptyBOM               = errors.New("el BOM no tiene operaciones")
	ErrIncompleteWorkOrders   = errors.New("la orden tiene work orders sin completar")
	ErrAlreadyDone            = errors.New("la orden está en un estado terminal")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrConcurrentModification = errors.New("el registro fue modificado por otra operación; reintentar")
)

// ComponentFailure es el fallo de reserva de un componente individual
// dentro de una pasada de reserva parcial.
type ComponentFailure struct {
	MaterialID string
	Err        error
}

// ReservationIncompleteError agrupa los fallos por componente de una
// reserva parcial. Los componentes que sí se apartaron permanecen
// apartados (semántica best-effort): el caller decide si reintenta la
// reserva o cancela la orden.
type ReservationIncompleteError struct {
	OrderID  string
	Failures []ComponentFailure
}

// Error implementa error con un resumen legible por humanos.
func (e *ReservationIncompleteError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.MaterialID, f.Err))
	}
	return fmt.Sprintf("reserva incompleta para la orden %s (%d componentes fallaron): %s",
		e.OrderID, len(e.Failures), strings.Join(parts, "; "))
}
