package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// WorkOrderHandler maneja el ciclo de vida de las work orders (protegido).
type WorkOrderHandler struct {
	uc *manufacturing.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *manufacturing.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// GetByID devuelve una work order.
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	wo, err := h.uc.GetWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Start arranca una work order en Ready y la asigna al operario del token.
func (h *WorkOrderHandler) Start(c *fiber.Ctx) error {
	wo, err := h.uc.StartWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Pause pausa una work order en progreso.
func (h *WorkOrderHandler) Pause(c *fiber.Ctx) error {
	wo, err := h.uc.PauseWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Resume reanuda una work order pausada.
func (h *WorkOrderHandler) Resume(c *fiber.Ctx) error {
	wo, err := h.uc.ResumeWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Complete completa una work order en progreso, con consumo real opcional.
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	consumed := make([]manufacturing.ConsumedLine, 0, len(in.Consumed))
	for _, line := range in.Consumed {
		consumed = append(consumed, manufacturing.ConsumedLine{
			MaterialID:       line.MaterialID,
			QuantityConsumed: line.QuantityConsumed,
			QuantityScrapped: line.QuantityScrapped,
		})
	}
	wo, err := h.uc.CompleteWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"), consumed, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Cancel cancela una work order no terminal.
func (h *WorkOrderHandler) Cancel(c *fiber.Ctx) error {
	wo, err := h.uc.CancelWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

// Fail marca una work order como fallida.
func (h *WorkOrderHandler) Fail(c *fiber.Ctx) error {
	wo, err := h.uc.FailWorkOrder(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkOrderResponse(wo))
}

func toWorkOrderResponse(wo *entity.WorkOrder) dto.WorkOrderResponse {
	materials := make([]dto.WOMaterialResponse, 0, len(wo.Materials))
	for _, m := range wo.Materials {
		materials = append(materials, dto.WOMaterialResponse{
			MaterialID:       m.MaterialID,
			QuantityRequired: m.QuantityRequired,
			QuantityConsumed: m.QuantityConsumed,
			QuantityScrapped: m.QuantityScrapped,
		})
	}
	return dto.WorkOrderResponse{
		ID:                   wo.ID,
		ManufacturingOrderID: wo.ManufacturingOrderID,
		Sequence:             wo.Sequence,
		Name:                 wo.Name,
		WorkCenter:           wo.WorkCenter,
		Status:               wo.Status,
		QualityCheck:         wo.QualityCheck,
		Materials:            materials,
		ExpectedMinutes:      int(wo.ExpectedDuration / time.Minute),
		SetupMinutes:         int(wo.SetupTime / time.Minute),
		RealMinutes:          int(wo.RealDuration / time.Minute),
		PausedMinutes:        int(wo.PausedTime / time.Minute),
		AssignedTo:           wo.AssignedTo,
		StartedAt:            wo.StartedAt,
		CompletedAt:          wo.CompletedAt,
	}
}
