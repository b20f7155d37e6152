package memory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type manufacturingOrderRepository struct {
	s *Store
}

func (r *manufacturingOrderRepository) Create(mo *entity.ManufacturingOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[mo.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.orders[mo.ID] = cloneOrder(mo)
	return nil
}

func (r *manufacturingOrderRepository) GetByID(id string) (*entity.ManufacturingOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mo, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(mo), nil
}

func (r *manufacturingOrderRepository) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	return r.GetByID(id)
}

func (r *manufacturingOrderRepository) Update(mo *entity.ManufacturingOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.orders[mo.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != mo.Version {
		return domain.ErrConcurrentModification
	}
	mo.Version++
	r.s.orders[mo.ID] = cloneOrder(mo)
	return nil
}

func (r *manufacturingOrderRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []*entity.ManufacturingOrder
	for _, mo := range r.s.orders {
		if mo.CompanyID == companyID {
			orders = append(orders, cloneOrder(mo))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginate(orders, limit, offset), nil
}

func (r *manufacturingOrderRepository) NextNumber(companyID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, mo := range r.s.orders {
		if mo.CompanyID == companyID {
			count++
		}
	}
	return fmt.Sprintf("MO-%04d", count+1), nil
}

func cloneOrder(mo *entity.ManufacturingOrder) *entity.ManufacturingOrder {
	c := *mo
	c.Components = append([]entity.MOComponent(nil), mo.Components...)
	c.WorkOrderIDs = append([]string(nil), mo.WorkOrderIDs...)
	return &c
}
