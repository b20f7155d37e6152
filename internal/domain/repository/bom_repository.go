package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// BOMRepository define el puerto de persistencia para BillOfMaterials (DIP).
// Los componentes y operaciones se persisten junto con la cabecera.
type BOMRepository interface {
	Create(bom *entity.BillOfMaterials) error
	GetByID(id string) (*entity.BillOfMaterials, error)
	Update(bom *entity.BillOfMaterials) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.BillOfMaterials, error)
}
