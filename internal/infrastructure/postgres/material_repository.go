package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

type materialRepository struct {
	q Querier
}

// NewMaterialRepository crea un repositorio de materiales sobre el pool o una tx.
func NewMaterialRepository(q Querier) repository.MaterialRepository {
	return &materialRepository{q: q}
}

const materialColumns = `id, company_id, code, name, category, unit_measure,
	on_hand, reserved, cost, version, created_at, updated_at`

func (r *materialRepository) Create(material *entity.Material) error {
	query := `
		INSERT INTO materials (id, company_id, code, name, category, unit_measure,
			on_hand, reserved, cost, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.CompanyID, material.Code, material.Name,
		material.Category, material.UnitMeasure,
		material.OnHand, material.Reserved, material.Cost,
		material.Version, material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insertar material: %w", err)
	}
	return nil
}

func (r *materialRepository) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *materialRepository) GetByCompanyAndCode(companyID, code string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 AND code = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code))
}

// GetForUpdate bloquea la fila del material hasta el fin de la transacción,
// serializando los ciclos leer-modificar-escribir sobre OnHand/Reserved.
func (r *materialRepository) GetForUpdate(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

func (r *materialRepository) Update(material *entity.Material) error {
	query := `
		UPDATE materials
		SET name = $1, category = $2, unit_measure = $3,
			on_hand = $4, reserved = $5, cost = $6,
			version = version + 1, updated_at = $7
		WHERE id = $8 AND version = $9`
	tag, err := r.q.Exec(context.Background(), query,
		material.Name, material.Category, material.UnitMeasure,
		material.OnHand, material.Reserved, material.Cost,
		material.UpdatedAt, material.ID, material.Version,
	)
	if err != nil {
		return fmt.Errorf("actualizar material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	material.Version++
	return nil
}

func (r *materialRepository) ListByCompany(companyID string, limit, offset int) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE company_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar materiales: %w", err)
	}
	defer rows.Close()

	var materials []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *materialRepository) scanOne(row pgx.Row) (*entity.Material, error) {
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Code, &m.Name, &m.Category, &m.UnitMeasure,
		&m.OnHand, &m.Reserved, &m.Cost, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
