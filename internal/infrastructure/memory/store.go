package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Store guarda todo el estado en memoria. Implementa los TxRunner de los
// casos de uso sin transacciones reales: sirve para tests y demos, donde
// las operaciones corren de a una y no hay rollback que emular.
type Store struct {
	mu         sync.RWMutex
	materials  map[string]*entity.Material
	ledger     []*entity.StockTransaction
	boms       map[string]*entity.BillOfMaterials
	orders     map[string]*entity.ManufacturingOrder
	workOrders map[string]*entity.WorkOrder
	users      map[string]*entity.User
}

// Verify interface compliance
var _ ledger.TxRunner = (*Store)(nil)
var _ manufacturing.TxRunner = (*Store)(nil)

// NewStore crea un almacén en memoria vacío.
func NewStore() *Store {
	return &Store{
		materials:  map[string]*entity.Material{},
		boms:       map[string]*entity.BillOfMaterials{},
		orders:     map[string]*entity.ManufacturingOrder{},
		workOrders: map[string]*entity.WorkOrder{},
		users:      map[string]*entity.User{},
	}
}

// Materials devuelve el repositorio de materiales sobre este almacén.
func (s *Store) Materials() repository.MaterialRepository { return &materialRepository{s: s} }

// StockLedger devuelve el repositorio del libro de inventario.
func (s *Store) StockLedger() repository.StockLedgerRepository { return &stockLedgerRepository{s: s} }

// BOMs devuelve el repositorio de listas de materiales.
func (s *Store) BOMs() repository.BOMRepository { return &bomRepository{s: s} }

// Orders devuelve el repositorio de órdenes de fabricación.
func (s *Store) Orders() repository.ManufacturingOrderRepository {
	return &manufacturingOrderRepository{s: s}
}

// WorkOrders devuelve el repositorio de work orders.
func (s *Store) WorkOrders() repository.WorkOrderRepository { return &workOrderRepository{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepository{s: s} }

// Run ejecuta fn con los repos del libro de inventario.
func (s *Store) Run(ctx context.Context, fn func(
	materials repository.MaterialRepository,
	stockLedger repository.StockLedgerRepository,
) error) error {
	return fn(s.Materials(), s.StockLedger())
}

// RunManufacturing ejecuta fn con el juego completo de repos del motor.
func (s *Store) RunManufacturing(ctx context.Context, fn func(
	materials repository.MaterialRepository,
	stockLedger repository.StockLedgerRepository,
	orders repository.ManufacturingOrderRepository,
	workOrders repository.WorkOrderRepository,
	boms repository.BOMRepository,
) error) error {
	return fn(s.Materials(), s.StockLedger(), s.Orders(), s.WorkOrders(), s.BOMs())
}
