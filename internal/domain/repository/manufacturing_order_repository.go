package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// ManufacturingOrderRepository define el puerto de persistencia para
// ManufacturingOrder (DIP). Los componentes denormalizados y la lista de
// work orders viajan con la cabecera.
type ManufacturingOrderRepository interface {
	Create(mo *entity.ManufacturingOrder) error
	GetByID(id string) (*entity.ManufacturingOrder, error)
	GetForUpdate(id string) (*entity.ManufacturingOrder, error)
	// Update persiste estado, progreso y componentes; falla con
	// domain.ErrConcurrentModification si la versión no coincide.
	Update(mo *entity.ManufacturingOrder) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.ManufacturingOrder, error)
	// NextNumber devuelve el siguiente consecutivo legible (MO-0001).
	NextNumber(companyID string) (string, error)
}
