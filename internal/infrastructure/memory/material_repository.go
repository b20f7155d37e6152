package memory

import (
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type materialRepository struct {
	s *Store
}

func (r *materialRepository) Create(material *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[material.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.materials[material.ID] = cloneMaterial(material)
	return nil
}

func (r *materialRepository) GetByID(id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	return cloneMaterial(m), nil
}

func (r *materialRepository) GetByCompanyAndCode(companyID, code string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.CompanyID == companyID && m.Code == code {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *materialRepository) GetForUpdate(id string) (*entity.Material, error) {
	return r.GetByID(id)
}

func (r *materialRepository) Update(material *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.materials[material.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != material.Version {
		return domain.ErrConcurrentModification
	}
	material.Version++
	r.s.materials[material.ID] = cloneMaterial(material)
	return nil
}

func (r *materialRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var materials []*entity.Material
	for _, m := range r.s.materials {
		if m.CompanyID == companyID {
			materials = append(materials, cloneMaterial(m))
		}
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].Code < materials[j].Code })
	return paginate(materials, limit, offset), nil
}

func cloneMaterial(m *entity.Material) *entity.Material {
	c := *m
	return &c
}

// paginate aplica limit/offset sobre un slice ya ordenado.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
