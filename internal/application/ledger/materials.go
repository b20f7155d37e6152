package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// MaterialUseCase administra el catálogo de materiales y la consulta del
// libro de inventario. Los contadores solo se mutan vía UseCase (Apply);
// aquí no hay escritura de stock.
type MaterialUseCase struct {
	materialRepo repository.MaterialRepository
	ledgerRepo   repository.StockLedgerRepository
}

// NewMaterialUseCase construye el caso de uso de materiales.
func NewMaterialUseCase(materialRepo repository.MaterialRepository, ledgerRepo repository.StockLedgerRepository) *MaterialUseCase {
	return &MaterialUseCase{materialRepo: materialRepo, ledgerRepo: ledgerRepo}
}

// CreateMaterialInput entrada para crear un material.
type CreateMaterialInput struct {
	CompanyID   string
	Code        string
	Name        string
	Category    string
	UnitMeasure string
	Actor       string
}

// CreateMaterial registra un material con contadores en cero.
func (uc *MaterialUseCase) CreateMaterial(ctx context.Context, in CreateMaterialInput) (*entity.Material, error) {
	if in.CompanyID == "" || in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.materialRepo.GetByCompanyAndCode(in.CompanyID, in.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	mat := &entity.Material{
		ID:          uuid.New().String(),
		CompanyID:   in.CompanyID,
		Code:        in.Code,
		Name:        in.Name,
		Category:    in.Category,
		UnitMeasure: in.UnitMeasure,
		OnHand:      decimal.Zero,
		Reserved:    decimal.Zero,
		Cost:        decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.materialRepo.Create(mat); err != nil {
		return nil, err
	}
	return mat, nil
}

// GetMaterial devuelve un material validando pertenencia a la empresa.
func (uc *MaterialUseCase) GetMaterial(ctx context.Context, companyID, materialID string) (*entity.Material, error) {
	mat, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, domain.ErrNotFound
	}
	if mat.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return mat, nil
}

// ListMaterials lista los materiales de una empresa (paginado).
func (uc *MaterialUseCase) ListMaterials(ctx context.Context, companyID string, limit, offset int) ([]*entity.Material, error) {
	return uc.materialRepo.ListByCompany(companyID, limit, offset)
}

// ListLedger devuelve las transacciones del libro para un material.
func (uc *MaterialUseCase) ListLedger(ctx context.Context, companyID, materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	if _, err := uc.GetMaterial(ctx, companyID, materialID); err != nil {
		return nil, err
	}
	return uc.ledgerRepo.ListByMaterial(materialID, from, to, limit, offset)
}
