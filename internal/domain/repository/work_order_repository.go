package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// WorkOrderRepository define el puerto de persistencia para WorkOrder (DIP).
type WorkOrderRepository interface {
	Create(wo *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	// Update persiste estado, materiales y duraciones; falla con
	// domain.ErrConcurrentModification si la versión no coincide.
	Update(wo *entity.WorkOrder) error
	// ListByOrder devuelve las WOs de una MO ordenadas por Sequence asc.
	ListByOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error)
	// GetByOrderAndSequence localiza la WO (moID, sequence); nil si no existe.
	GetByOrderAndSequence(manufacturingOrderID string, sequence int) (*entity.WorkOrder, error)
}
