package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ManufacturingHandler maneja las órdenes de fabricación (protegido).
type ManufacturingHandler struct {
	orders      *manufacturing.OrderUseCase
	sequencer   *manufacturing.SequencerUseCase
	reservation *manufacturing.ReservationUseCase
	lifecycle   *manufacturing.LifecycleUseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(
	orders *manufacturing.OrderUseCase,
	sequencer *manufacturing.SequencerUseCase,
	reservation *manufacturing.ReservationUseCase,
	lifecycle *manufacturing.LifecycleUseCase,
) *ManufacturingHandler {
	return &ManufacturingHandler{orders: orders, sequencer: sequencer, reservation: reservation, lifecycle: lifecycle}
}

// Create crea una orden en borrador desde un BOM.
func (h *ManufacturingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mo, err := h.orders.CreateOrder(c.Context(), manufacturing.CreateOrderInput{
		CompanyID:        GetCompanyID(c),
		BOMID:            in.BOMID,
		Quantity:         in.Quantity,
		PlannedStartDate: in.PlannedStartDate,
		PlannedEndDate:   in.PlannedEndDate,
		Actor:            GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(mo))
}

// GetByID devuelve una orden con componentes y progreso.
func (h *ManufacturingHandler) GetByID(c *fiber.Ctx) error {
	mo, err := h.orders.GetOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(mo))
}

// List lista las órdenes de la empresa.
func (h *ManufacturingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	orders, err := h.orders.ListOrders(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, mo := range orders {
		out = append(out, toOrderResponse(mo))
	}
	return c.JSON(fiber.Map{"orders": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GenerateWorkOrders genera la cadena de work orders desde el BOM de la orden.
func (h *ManufacturingHandler) GenerateWorkOrders(c *fiber.Ctx) error {
	wos, err := h.sequencer.GenerateWorkOrders(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WorkOrderResponse, 0, len(wos))
	for _, wo := range wos {
		out = append(out, toWorkOrderResponse(wo))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"work_orders": out})
}

// Reserve aparta stock para los componentes de la orden. Con fallos
// parciales responde 422 con la lista de componentes fallidos; los apartados
// que sí funcionaron quedan en pie.
func (h *ManufacturingHandler) Reserve(c *fiber.Ctx) error {
	txs, err := h.reservation.ReserveForOrder(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		var incomplete *domain.ReservationIncompleteError
		if errors.As(err, &incomplete) {
			failures := make([]fiber.Map, 0, len(incomplete.Failures))
			for _, f := range incomplete.Failures {
				failures = append(failures, fiber.Map{"material_id": f.MaterialID, "error": f.Err.Error()})
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"code":     "RESERVATION_INCOMPLETE",
				"message":  "no todos los componentes pudieron reservarse",
				"reserved": len(txs),
				"failures": failures,
			})
		}
		return respondError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transactions": out})
}

// Complete cierra una orden con todas sus work orders completadas.
func (h *ManufacturingHandler) Complete(c *fiber.Ctx) error {
	mo, err := h.lifecycle.CompleteOrder(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(mo))
}

// Cancel cancela una orden no terminal, liberando los apartados vigentes.
func (h *ManufacturingHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	mo, err := h.lifecycle.CancelOrder(c.Context(), GetCompanyID(c), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(mo))
}

// RecomputeProgress recalcula el progreso de la orden desde sus work orders.
func (h *ManufacturingHandler) RecomputeProgress(c *fiber.Ctx) error {
	mo, err := h.lifecycle.RecomputeProgress(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(mo))
}

// ListWorkOrders devuelve las work orders de la orden, por secuencia.
func (h *ManufacturingHandler) ListWorkOrders(c *fiber.Ctx) error {
	wos, err := h.orders.ListWorkOrders(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WorkOrderResponse, 0, len(wos))
	for _, wo := range wos {
		out = append(out, toWorkOrderResponse(wo))
	}
	return c.JSON(fiber.Map{"work_orders": out})
}

func toOrderResponse(mo *entity.ManufacturingOrder) dto.OrderResponse {
	components := make([]dto.MOComponentResponse, 0, len(mo.Components))
	for _, comp := range mo.Components {
		components = append(components, dto.MOComponentResponse{
			MaterialID:       comp.MaterialID,
			QuantityRequired: comp.QuantityRequired,
			QuantityReserved: comp.QuantityReserved,
			QuantityConsumed: comp.QuantityConsumed,
			UnitCost:         comp.UnitCost,
			WastePercent:     comp.WastePercent,
		})
	}
	return dto.OrderResponse{
		ID:                mo.ID,
		Number:            mo.Number,
		ProductName:       mo.ProductName,
		ProductMaterialID: mo.ProductMaterialID,
		BOMID:             mo.BOMID,
		Quantity:          mo.Quantity,
		Status:            mo.Status,
		Progress:          mo.Progress,
		Components:        components,
		WorkOrderIDs:      mo.WorkOrderIDs,
		ActualStartDate:   mo.ActualStartDate,
		ActualEndDate:     mo.ActualEndDate,
		CancelReason:      mo.CancelReason,
		CreatedAt:         mo.CreatedAt,
	}
}
