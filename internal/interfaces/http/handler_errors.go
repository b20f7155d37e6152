package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// respondError mapea los errores de dominio a códigos HTTP. Los handlers solo
// manejan aparte los casos con cuerpo propio (reserva incompleta).
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidBOM):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BOM", Message: "BOM inválido: operaciones vacías o secuencias duplicadas"})
	case errors.Is(err, domain.ErrBOMNotEditable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BOM_NOT_EDITABLE", Message: "solo un BOM en borrador es editable"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock disponible insuficiente"})
	case errors.Is(err, domain.ErrAlreadyGenerated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_GENERATED", Message: "la orden ya tiene work orders generadas"})
	case errors.Is(err, domain.ErrNoBOM), errors.Is(err, domain.ErrEmptyBOM):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_BOM", Message: "la orden no referencia un BOM con operaciones"})
	case errors.Is(err, domain.ErrIncompleteWorkOrders):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCOMPLETE_WORK_ORDERS", Message: "hay work orders sin completar"})
	case errors.Is(err, domain.ErrAlreadyDone):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DONE", Message: "la orden ya está en un estado terminal"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso fue modificado por otra operación, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
