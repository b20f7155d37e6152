package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// MaterialHandler maneja materiales, ajustes de stock y el libro de
// inventario (protegido).
type MaterialHandler struct {
	materials *ledger.MaterialUseCase
	stock     *ledger.UseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(materials *ledger.MaterialUseCase, stock *ledger.UseCase) *MaterialHandler {
	return &MaterialHandler{materials: materials, stock: stock}
}

// Create registra un material con contadores en cero.
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.materials.CreateMaterial(c.Context(), ledger.CreateMaterialInput{
		CompanyID:   GetCompanyID(c),
		Code:        in.Code,
		Name:        in.Name,
		Category:    in.Category,
		UnitMeasure: in.UnitMeasure,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMaterialResponse(m))
}

// GetByID devuelve un material con sus contadores y el disponible derivado.
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.materials.GetMaterial(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMaterialResponse(m))
}

// List lista los materiales de la empresa.
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	materials, err := h.materials.ListMaterials(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, toMaterialResponse(m))
	}
	return c.JSON(fiber.Map{"materials": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Adjust registra un movimiento manual (IN, OUT o ADJUSTMENT).
func (h *MaterialHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.stock.AdjustStock(c.Context(), ledger.AdjustInput{
		MaterialID: c.Params("id"),
		CompanyID:  GetCompanyID(c),
		Type:       in.Type,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Reserve aparta stock disponible del material.
func (h *MaterialHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.stock.Reserve(c.Context(), GetCompanyID(c), c.Params("id"), in.Quantity, in.Reference, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Unreserve libera un apartado vigente.
func (h *MaterialHandler) Unreserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.stock.Unreserve(c.Context(), GetCompanyID(c), c.Params("id"), in.Quantity, in.Reference, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Ledger devuelve el historial de transacciones del material, opcionalmente
// acotado por rango de fechas (from/to en RFC3339).
func (h *MaterialHandler) Ledger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		to = &t
	}

	txs, err := h.materials.ListLedger(c.Context(), GetCompanyID(c), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(fiber.Map{"transactions": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func toMaterialResponse(m *entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Category:    m.Category,
		UnitMeasure: m.UnitMeasure,
		OnHand:      m.OnHand,
		Reserved:    m.Reserved,
		Available:   m.Available(),
		Cost:        m.Cost,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTransactionResponse(tx *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		MaterialID:  tx.MaterialID,
		Type:        tx.Type,
		Quantity:    tx.Quantity,
		UnitCost:    tx.UnitCost,
		Reference:   tx.Reference,
		PerformedBy: tx.PerformedBy,
		CreatedAt:   tx.CreatedAt,
	}
}
