package memory

import (
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type workOrderRepository struct {
	s *Store
}

func (r *workOrderRepository) Create(wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workOrders[wo.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.workOrders[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (r *workOrderRepository) GetByID(id string) (*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wo, ok := r.s.workOrders[id]
	if !ok {
		return nil, nil
	}
	return cloneWorkOrder(wo), nil
}

func (r *workOrderRepository) Update(wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.workOrders[wo.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != wo.Version {
		return domain.ErrConcurrentModification
	}
	wo.Version++
	r.s.workOrders[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (r *workOrderRepository) ListByOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var wos []*entity.WorkOrder
	for _, wo := range r.s.workOrders {
		if wo.ManufacturingOrderID == manufacturingOrderID {
			wos = append(wos, cloneWorkOrder(wo))
		}
	}
	sort.Slice(wos, func(i, j int) bool { return wos[i].Sequence < wos[j].Sequence })
	return wos, nil
}

func (r *workOrderRepository) GetByOrderAndSequence(manufacturingOrderID string, sequence int) (*entity.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, wo := range r.s.workOrders {
		if wo.ManufacturingOrderID == manufacturingOrderID && wo.Sequence == sequence {
			return cloneWorkOrder(wo), nil
		}
	}
	return nil, nil
}

func cloneWorkOrder(wo *entity.WorkOrder) *entity.WorkOrder {
	c := *wo
	c.Materials = append([]entity.WOMaterial(nil), wo.Materials...)
	return &c
}
