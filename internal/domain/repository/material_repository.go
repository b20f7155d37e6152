package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// MaterialRepository define el puerto de persistencia para Material (DIP).
// GetForUpdate bloquea la fila del material (SELECT FOR UPDATE) para
// serializar lecturas-modificaciones concurrentes sobre OnHand/Reserved.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	GetByCompanyAndCode(companyID, code string) (*entity.Material, error)
	GetForUpdate(id string) (*entity.Material, error)
	// Update persiste los contadores y el costo; falla con
	// domain.ErrConcurrentModification si la versión no coincide.
	Update(material *entity.Material) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Material, error)
}
