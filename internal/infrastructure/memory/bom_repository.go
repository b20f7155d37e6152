package memory

import (
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type bomRepository struct {
	s *Store
}

func (r *bomRepository) Create(bom *entity.BillOfMaterials) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boms[bom.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.boms[bom.ID] = cloneBOM(bom)
	return nil
}

func (r *bomRepository) GetByID(id string) (*entity.BillOfMaterials, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bom, ok := r.s.boms[id]
	if !ok {
		return nil, nil
	}
	return cloneBOM(bom), nil
}

func (r *bomRepository) Update(bom *entity.BillOfMaterials) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boms[bom.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.boms[bom.ID] = cloneBOM(bom)
	return nil
}

func (r *bomRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.BillOfMaterials, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var boms []*entity.BillOfMaterials
	for _, bom := range r.s.boms {
		if bom.CompanyID == companyID {
			boms = append(boms, cloneBOM(bom))
		}
	}
	sort.Slice(boms, func(i, j int) bool { return boms[i].CreatedAt.After(boms[j].CreatedAt) })
	return paginate(boms, limit, offset), nil
}

func cloneBOM(bom *entity.BillOfMaterials) *entity.BillOfMaterials {
	c := *bom
	c.Components = append([]entity.BOMComponent(nil), bom.Components...)
	c.Operations = append([]entity.BOMOperation(nil), bom.Operations...)
	return &c
}
