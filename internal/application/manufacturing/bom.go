package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// BOMUseCase administra listas de materiales: creación en borrador,
// edición (solo en borrador), activación y archivado. Un BOM activo es un
// snapshot inmutable referenciable por órdenes de fabricación.
type BOMUseCase struct {
	bomRepo repository.BOMRepository
}

// NewBOMUseCase construye el caso de uso de BOMs.
func NewBOMUseCase(bomRepo repository.BOMRepository) *BOMUseCase {
	return &BOMUseCase{bomRepo: bomRepo}
}

// CreateBOMInput entrada para crear un BOM en borrador.
type CreateBOMInput struct {
	CompanyID         string
	ProductName       string
	ProductMaterialID string
	Components        []entity.BOMComponent
	Operations        []entity.BOMOperation
	Actor             string
}

// CreateBOM crea un BOM en Draft.
func (uc *BOMUseCase) CreateBOM(ctx context.Context, in CreateBOMInput) (*entity.BillOfMaterials, error) {
	if in.CompanyID == "" || in.ProductName == "" || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	bom := &entity.BillOfMaterials{
		ID:                uuid.New().String(),
		CompanyID:         in.CompanyID,
		ProductName:       in.ProductName,
		ProductMaterialID: in.ProductMaterialID,
		Status:            entity.BOMStatusDraft,
		Components:        in.Components,
		Operations:        in.Operations,
		CreatedBy:         in.Actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.bomRepo.Create(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// UpdateBOM reemplaza componentes y operaciones. Solo válido en Draft.
func (uc *BOMUseCase) UpdateBOM(ctx context.Context, companyID, bomID string, components []entity.BOMComponent, operations []entity.BOMOperation) (*entity.BillOfMaterials, error) {
	bom, err := uc.getOwned(companyID, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BOMStatusDraft {
		return nil, domain.ErrBOMNotEditable
	}
	bom.Components = components
	bom.Operations = operations
	bom.UpdatedAt = time.Now()
	if err := uc.bomRepo.Update(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// ActivateBOM congela un BOM en borrador como snapshot Active. Valida la
// estructura de la receta (operaciones presentes, secuencias únicas)
// resolviéndola para una unidad.
func (uc *BOMUseCase) ActivateBOM(ctx context.Context, companyID, bomID string) (*entity.BillOfMaterials, error) {
	bom, err := uc.getOwned(companyID, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BOMStatusDraft {
		return nil, domain.ErrBOMNotEditable
	}
	if _, err := manufacturing.ResolveBOM(bom, decimal.NewFromInt(1)); err != nil {
		return nil, err
	}
	bom.Status = entity.BOMStatusActive
	bom.UpdatedAt = time.Now()
	if err := uc.bomRepo.Update(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// ArchiveBOM retira un BOM activo de uso para nuevas órdenes.
func (uc *BOMUseCase) ArchiveBOM(ctx context.Context, companyID, bomID string) (*entity.BillOfMaterials, error) {
	bom, err := uc.getOwned(companyID, bomID)
	if err != nil {
		return nil, err
	}
	if bom.Status != entity.BOMStatusActive {
		return nil, domain.ErrInvalidTransition
	}
	bom.Status = entity.BOMStatusArchived
	bom.UpdatedAt = time.Now()
	if err := uc.bomRepo.Update(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// GetBOM devuelve un BOM validando pertenencia.
func (uc *BOMUseCase) GetBOM(ctx context.Context, companyID, bomID string) (*entity.BillOfMaterials, error) {
	return uc.getOwned(companyID, bomID)
}

// ListBOMs lista los BOMs de una empresa (paginado).
func (uc *BOMUseCase) ListBOMs(ctx context.Context, companyID string, limit, offset int) ([]*entity.BillOfMaterials, error) {
	return uc.bomRepo.ListByCompany(companyID, limit, offset)
}

func (uc *BOMUseCase) getOwned(companyID, bomID string) (*entity.BillOfMaterials, error) {
	bom, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	if bom.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return bom, nil
}
