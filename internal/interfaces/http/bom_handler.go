package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// BOMHandler maneja las recetas de producción (protegido).
type BOMHandler struct {
	uc *manufacturing.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *manufacturing.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create crea un BOM en borrador.
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bom, err := h.uc.CreateBOM(c.Context(), manufacturing.CreateBOMInput{
		CompanyID:         GetCompanyID(c),
		ProductName:       in.ProductName,
		ProductMaterialID: in.ProductMaterialID,
		Components:        fromBOMComponentDTOs(in.Components),
		Operations:        fromBOMOperationDTOs(in.Operations),
		Actor:             GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBOMResponse(bom))
}

// Update reemplaza componentes y operaciones (solo en borrador).
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bom, err := h.uc.UpdateBOM(c.Context(), GetCompanyID(c), c.Params("id"),
		fromBOMComponentDTOs(in.Components), fromBOMOperationDTOs(in.Operations))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBOMResponse(bom))
}

// Activate valida y congela el BOM para uso por órdenes de fabricación.
func (h *BOMHandler) Activate(c *fiber.Ctx) error {
	bom, err := h.uc.ActivateBOM(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBOMResponse(bom))
}

// Archive archiva un BOM; órdenes existentes conservan su snapshot.
func (h *BOMHandler) Archive(c *fiber.Ctx) error {
	bom, err := h.uc.ArchiveBOM(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBOMResponse(bom))
}

// GetByID devuelve un BOM.
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	bom, err := h.uc.GetBOM(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBOMResponse(bom))
}

// List lista los BOMs de la empresa.
func (h *BOMHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	boms, err := h.uc.ListBOMs(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(boms))
	for _, bom := range boms {
		out = append(out, toBOMResponse(bom))
	}
	return c.JSON(fiber.Map{"boms": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func fromBOMComponentDTOs(in []dto.BOMComponentDTO) []entity.BOMComponent {
	out := make([]entity.BOMComponent, 0, len(in))
	for _, c := range in {
		out = append(out, entity.BOMComponent{
			MaterialID:      c.MaterialID,
			QuantityPerUnit: c.QuantityPerUnit,
			UnitCost:        c.UnitCost,
			WastePercent:    c.WastePercent,
		})
	}
	return out
}

func fromBOMOperationDTOs(in []dto.BOMOperationDTO) []entity.BOMOperation {
	out := make([]entity.BOMOperation, 0, len(in))
	for _, op := range in {
		out = append(out, entity.BOMOperation{
			Sequence:         op.Sequence,
			Name:             op.Name,
			WorkCenter:       op.WorkCenter,
			ExpectedDuration: time.Duration(op.DurationMinutes) * time.Minute,
			SetupTime:        time.Duration(op.SetupMinutes) * time.Minute,
			QualityCheck:     op.QualityCheck,
		})
	}
	return out
}

func toBOMResponse(bom *entity.BillOfMaterials) fiber.Map {
	components := make([]dto.BOMComponentDTO, 0, len(bom.Components))
	for _, c := range bom.Components {
		components = append(components, dto.BOMComponentDTO{
			MaterialID:      c.MaterialID,
			QuantityPerUnit: c.QuantityPerUnit,
			UnitCost:        c.UnitCost,
			WastePercent:    c.WastePercent,
		})
	}
	operations := make([]dto.BOMOperationDTO, 0, len(bom.Operations))
	for _, op := range bom.Operations {
		operations = append(operations, dto.BOMOperationDTO{
			Sequence:        op.Sequence,
			Name:            op.Name,
			WorkCenter:      op.WorkCenter,
			DurationMinutes: int(op.ExpectedDuration / time.Minute),
			SetupMinutes:    int(op.SetupTime / time.Minute),
			QualityCheck:    op.QualityCheck,
		})
	}
	return fiber.Map{
		"id":                  bom.ID,
		"product_name":        bom.ProductName,
		"product_material_id": bom.ProductMaterialID,
		"status":              bom.Status,
		"components":          components,
		"operations":          operations,
		"created_at":          bom.CreatedAt,
		"updated_at":          bom.UpdatedAt,
	}
}
