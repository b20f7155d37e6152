package manufacturing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

const (
	testCompany = "co-1"
	testActor   = "user-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixture arma el motor completo sobre el almacén en memoria: una mesa de
// 2 maderas (10% merma) y 8 tornillos por unidad, en dos operaciones.
type fixture struct {
	store       *memory.Store
	stock       *ledger.UseCase
	materials   *ledger.MaterialUseCase
	boms        *manufacturing.BOMUseCase
	orders      *manufacturing.OrderUseCase
	sequencer   *manufacturing.SequencerUseCase
	reservation *manufacturing.ReservationUseCase
	workOrders  *manufacturing.WorkOrderUseCase
	lifecycle   *manufacturing.LifecycleUseCase

	maderaID    string
	tornillosID string
	mesaID      string // material del producto terminado
	bomID       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "development", Level: "error"})

	f := &fixture{
		store:       store,
		stock:       ledger.NewUseCase(store, log),
		materials:   ledger.NewMaterialUseCase(store.Materials(), store.StockLedger()),
		boms:        manufacturing.NewBOMUseCase(store.BOMs()),
		orders:      manufacturing.NewOrderUseCase(store, store.Orders(), store.WorkOrders(), log),
		sequencer:   manufacturing.NewSequencerUseCase(store, log),
		reservation: manufacturing.NewReservationUseCase(store, log),
		workOrders:  manufacturing.NewWorkOrderUseCase(store, store.WorkOrders(), log),
		lifecycle:   manufacturing.NewLifecycleUseCase(store, log),
	}

	f.maderaID = f.crearMaterial(t, "MADERA")
	f.tornillosID = f.crearMaterial(t, "TORNILLOS")
	f.mesaID = f.crearMaterial(t, "MESA")
	f.bomID = f.crearBOMActivo(t)
	return f
}

func (f *fixture) crearMaterial(t *testing.T, code string) string {
	t.Helper()
	m, err := f.materials.CreateMaterial(context.Background(), ledger.CreateMaterialInput{
		CompanyID: testCompany, Code: code, Name: code, UnitMeasure: "unidad", Actor: testActor,
	})
	require.NoError(t, err)
	return m.ID
}

func (f *fixture) entrada(t *testing.T, materialID string, qty, cost string) {
	t.Helper()
	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: materialID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec(qty), UnitCost: dec(cost), Actor: testActor,
	})
	require.NoError(t, err)
}

func (f *fixture) crearBOMActivo(t *testing.T) string {
	t.Helper()
	bom, err := f.boms.CreateBOM(context.Background(), manufacturing.CreateBOMInput{
		CompanyID:         testCompany,
		ProductName:       "Mesa",
		ProductMaterialID: f.mesaID,
		Components: []entity.BOMComponent{
			{MaterialID: f.maderaID, QuantityPerUnit: dec("2"), UnitCost: dec("15"), WastePercent: dec("10")},
			{MaterialID: f.tornillosID, QuantityPerUnit: dec("8"), UnitCost: dec("0.5")},
		},
		Operations: []entity.BOMOperation{
			{Sequence: 10, Name: "Corte", WorkCenter: "Sierra", ExpectedDuration: 30 * time.Minute},
			{Sequence: 20, Name: "Ensamble", WorkCenter: "Banco", ExpectedDuration: 45 * time.Minute},
		},
		Actor: testActor,
	})
	require.NoError(t, err)
	_, err = f.boms.ActivateBOM(context.Background(), testCompany, bom.ID)
	require.NoError(t, err)
	return bom.ID
}

func (f *fixture) crearOrden(t *testing.T, qty string) *entity.ManufacturingOrder {
	t.Helper()
	mo, err := f.orders.CreateOrder(context.Background(), manufacturing.CreateOrderInput{
		CompanyID: testCompany, BOMID: f.bomID, Quantity: dec(qty), Actor: testActor,
	})
	require.NoError(t, err)
	return mo
}

func (f *fixture) material(t *testing.T, id string) *entity.Material {
	t.Helper()
	m, err := f.store.Materials().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func (f *fixture) orden(t *testing.T, id string) *entity.ManufacturingOrder {
	t.Helper()
	mo, err := f.store.Orders().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, mo)
	return mo
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_SnapshotDeComponentes(t *testing.T) {
	f := newFixture(t)
	mo := f.crearOrden(t, "10")

	assert.Equal(t, entity.MOStatusDraft, mo.Status)
	assert.Equal(t, "MO-0001", mo.Number)
	assert.Equal(t, f.mesaID, mo.ProductMaterialID)

	require.Len(t, mo.Components, 2)
	assert.True(t, mo.Components[0].QuantityRequired.Equal(dec("20")), "2/unidad * 10")
	assert.True(t, mo.Components[1].QuantityRequired.Equal(dec("80")), "8/unidad * 10")
	assert.True(t, mo.Components[0].QuantityReserved.IsZero())

	// Ediciones posteriores del BOM no tocan el snapshot de la orden.
	mo2 := f.crearOrden(t, "1")
	assert.Equal(t, "MO-0002", mo2.Number)
}

func TestCreateOrder_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.CreateOrder(context.Background(), manufacturing.CreateOrderInput{
		CompanyID: testCompany, BOMID: f.bomID, Quantity: dec("0"), Actor: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Generación de work orders
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateWorkOrders_CadenaSecuencial(t *testing.T) {
	f := newFixture(t)
	mo := f.crearOrden(t, "10")

	wos, err := f.sequencer.GenerateWorkOrders(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	require.Len(t, wos, 2)

	// Secuencias densas 1..N aunque el BOM use 10, 20.
	assert.Equal(t, 1, wos[0].Sequence)
	assert.Equal(t, 2, wos[1].Sequence)
	assert.Equal(t, "Corte", wos[0].Name)
	assert.Equal(t, entity.WOStatusReady, wos[0].Status, "la primera WO nace Ready")
	assert.Equal(t, entity.WOStatusPending, wos[1].Status)

	// La entrega de material (con merma) va en la primera operación.
	require.Len(t, wos[0].Materials, 2)
	assert.True(t, wos[0].Materials[0].QuantityRequired.Equal(dec("22")), "20 + 10%% de merma")
	assert.True(t, wos[0].Materials[1].QuantityRequired.Equal(dec("80")))
	assert.Empty(t, wos[1].Materials)

	got := f.orden(t, mo.ID)
	assert.Equal(t, entity.MOStatusConfirmed, got.Status)
	assert.Equal(t, []string{wos[0].ID, wos[1].ID}, got.WorkOrderIDs)
}

func TestGenerateWorkOrders_SegundaVezFalla(t *testing.T) {
	f := newFixture(t)
	mo := f.crearOrden(t, "10")

	_, err := f.sequencer.GenerateWorkOrders(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	_, err = f.sequencer.GenerateWorkOrders(context.Background(), testCompany, mo.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrAlreadyGenerated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveForOrder_ApartaConMerma(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, f.maderaID, "100", "15")
	f.entrada(t, f.tornillosID, "200", "0.5")
	mo := f.crearOrden(t, "10")

	txs, err := f.reservation.ReserveForOrder(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	madera := f.material(t, f.maderaID)
	assert.True(t, madera.Reserved.Equal(dec("22")), "20 requerido + 10%% merma, fue %s", madera.Reserved)
	assert.True(t, madera.OnHand.Equal(dec("100")), "reservar no toca OnHand")

	got := f.orden(t, mo.ID)
	assert.True(t, got.Components[0].QuantityReserved.Equal(dec("22")))
	assert.True(t, got.Components[1].QuantityReserved.Equal(dec("80")))

	// Reintentar es idempotente: nada nuevo que reservar.
	txs, err = f.reservation.ReserveForOrder(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestReserveForOrder_FalloParcialConservaLoLogrado(t *testing.T) {
	f := newFixture(t)
	f.entrada(t, f.maderaID, "100", "15")
	f.entrada(t, f.tornillosID, "10", "0.5") // insuficiente: se requieren 80
	mo := f.crearOrden(t, "10")

	txs, err := f.reservation.ReserveForOrder(context.Background(), testCompany, mo.ID, testActor)
	require.Error(t, err)

	var incomplete *domain.ReservationIncompleteError
	require.True(t, errors.As(err, &incomplete))
	require.Len(t, incomplete.Failures, 1)
	assert.Equal(t, f.tornillosID, incomplete.Failures[0].MaterialID)
	assert.ErrorIs(t, incomplete.Failures[0].Err, domain.ErrInsufficientStock)

	// El apartado de madera que sí funcionó queda en pie.
	assert.Len(t, txs, 1)
	madera := f.material(t, f.maderaID)
	assert.True(t, madera.Reserved.Equal(dec("22")))

	got := f.orden(t, mo.ID)
	assert.True(t, got.Components[0].QuantityReserved.Equal(dec("22")))
	assert.True(t, got.Components[1].QuantityReserved.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida de work orders y consumo
// ──────────────────────────────────────────────────────────────────────────────

// preparada deja una orden de 10 mesas con WOs generadas y stock reservado.
func preparada(t *testing.T, f *fixture) (*entity.ManufacturingOrder, []*entity.WorkOrder) {
	t.Helper()
	f.entrada(t, f.maderaID, "100", "15")
	f.entrada(t, f.tornillosID, "200", "0.5")
	mo := f.crearOrden(t, "10")
	wos, err := f.sequencer.GenerateWorkOrders(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	_, err = f.reservation.ReserveForOrder(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	return f.orden(t, mo.ID), wos
}

func TestStartWorkOrder_SoloDesdeReady(t *testing.T) {
	f := newFixture(t)
	mo, wos := preparada(t, f)

	// La segunda WO sigue Pending: no puede arrancar.
	_, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[1].ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	wo, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[0].ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.WOStatusInProgress, wo.Status)
	assert.Equal(t, testActor, wo.AssignedTo)
	require.NotNil(t, wo.StartedAt)

	// Arrancar la primera WO mueve la orden a InProgress.
	got := f.orden(t, mo.ID)
	assert.Equal(t, entity.MOStatusInProgress, got.Status)
	assert.NotNil(t, got.ActualStartDate)
}

func TestPauseResume_AcumulaPausa(t *testing.T) {
	f := newFixture(t)
	_, wos := preparada(t, f)

	_, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[0].ID, testActor)
	require.NoError(t, err)

	wo, err := f.workOrders.PauseWorkOrder(context.Background(), testCompany, wos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WOStatusPaused, wo.Status)
	require.NotNil(t, wo.PausedAt)

	// Pausar dos veces no es válido.
	_, err = f.workOrders.PauseWorkOrder(context.Background(), testCompany, wos[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	wo, err = f.workOrders.ResumeWorkOrder(context.Background(), testCompany, wos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WOStatusInProgress, wo.Status)
	assert.Nil(t, wo.PausedAt)
}

func TestCompleteWorkOrder_ConsumeYAvanzaLaSiguiente(t *testing.T) {
	f := newFixture(t)
	mo, wos := preparada(t, f)

	_, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[0].ID, testActor)
	require.NoError(t, err)

	// El operario reporta 18 maderas consumidas (de 22 apartadas).
	wo, err := f.workOrders.CompleteWorkOrder(context.Background(), testCompany, wos[0].ID,
		[]manufacturing.ConsumedLine{{MaterialID: f.maderaID, QuantityConsumed: dec("18")}}, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.WOStatusCompleted, wo.Status)
	require.NotNil(t, wo.CompletedAt)

	// Liberar 22 y consumir 18: OnHand 100-18=82, Reserved 0.
	madera := f.material(t, f.maderaID)
	assert.True(t, madera.OnHand.Equal(dec("82")), "fue %s", madera.OnHand)
	assert.True(t, madera.Reserved.IsZero())
	assert.True(t, madera.Available().Equal(dec("82")))

	// Tornillos sin reporte consumen lo requerido (80).
	tornillos := f.material(t, f.tornillosID)
	assert.True(t, tornillos.OnHand.Equal(dec("120")))
	assert.True(t, tornillos.Reserved.IsZero())

	// La siguiente WO pasó a Ready y la orden registra progreso 50.
	siguiente, err := f.store.WorkOrders().GetByID(wos[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WOStatusReady, siguiente.Status)

	got := f.orden(t, mo.ID)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, entity.MOStatusInProgress, got.Status)
	assert.True(t, got.Components[0].QuantityConsumed.Equal(dec("18")))
}

func TestCompleteWorkOrder_DobleCierreBloqueado(t *testing.T) {
	f := newFixture(t)
	_, wos := preparada(t, f)

	_, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[0].ID, testActor)
	require.NoError(t, err)
	_, err = f.workOrders.CompleteWorkOrder(context.Background(), testCompany, wos[0].ID, nil, testActor)
	require.NoError(t, err)

	// Completar de nuevo falla en la guarda de estado: no hay doble consumo.
	_, err = f.workOrders.CompleteWorkOrder(context.Background(), testCompany, wos[0].ID, nil, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	madera := f.material(t, f.maderaID)
	assert.True(t, madera.OnHand.Equal(dec("78")), "un solo consumo de 22: 100-22=78, fue %s", madera.OnHand)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre y cancelación de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func completarTodas(t *testing.T, f *fixture, wos []*entity.WorkOrder) {
	t.Helper()
	for _, wo := range wos {
		_, err := f.workOrders.StartWorkOrder(context.Background(), testCompany, wo.ID, testActor)
		require.NoError(t, err)
		_, err = f.workOrders.CompleteWorkOrder(context.Background(), testCompany, wo.ID, nil, testActor)
		require.NoError(t, err)
	}
}

func TestCompleteOrder_RecibeProductoTerminado(t *testing.T) {
	f := newFixture(t)
	mo, wos := preparada(t, f)
	completarTodas(t, f, wos)

	// Con todas las WOs completadas la orden queda lista para cierre.
	got := f.orden(t, mo.ID)
	assert.Equal(t, entity.MOStatusToClose, got.Status)
	assert.Equal(t, 100, got.Progress)

	done, err := f.lifecycle.CompleteOrder(context.Background(), testCompany, mo.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.MOStatusDone, done.Status)
	assert.NotNil(t, done.ActualEndDate)

	// Entran 10 mesas al costo del snapshot: (20*15 + 80*0.5)/10 = 34.
	mesa := f.material(t, f.mesaID)
	assert.True(t, mesa.OnHand.Equal(dec("10")))
	assert.True(t, mesa.Cost.Equal(dec("34")), "fue %s", mesa.Cost)

	// Cerrar dos veces no es válido.
	_, err = f.lifecycle.CompleteOrder(context.Background(), testCompany, mo.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrAlreadyDone)
}

func TestCompleteOrder_ConWOsPendientesFalla(t *testing.T) {
	f := newFixture(t)
	mo, wos := preparada(t, f)

	_, err := f.lifecycle.CompleteOrder(context.Background(), testCompany, mo.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrIncompleteWorkOrders)

	// Completar solo la primera tampoco alcanza.
	_, err = f.workOrders.StartWorkOrder(context.Background(), testCompany, wos[0].ID, testActor)
	require.NoError(t, err)
	_, err = f.workOrders.CompleteWorkOrder(context.Background(), testCompany, wos[0].ID, nil, testActor)
	require.NoError(t, err)

	_, err = f.lifecycle.CompleteOrder(context.Background(), testCompany, mo.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrIncompleteWorkOrders)
}

func TestCancelOrder_LiberaApartadosYCancelaWOs(t *testing.T) {
	f := newFixture(t)
	mo, wos := preparada(t, f)

	cancelled, err := f.lifecycle.CancelOrder(context.Background(), testCompany, mo.ID, "cliente desistió", testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.MOStatusCancelled, cancelled.Status)
	assert.Equal(t, "cliente desistió", cancelled.CancelReason)

	// Todo lo apartado vuelve a estar disponible; OnHand intacto.
	madera := f.material(t, f.maderaID)
	assert.True(t, madera.Reserved.IsZero())
	assert.True(t, madera.OnHand.Equal(dec("100")))

	// Las WOs no arrancadas quedan canceladas.
	for _, wo := range wos {
		got, err := f.store.WorkOrders().GetByID(wo.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.WOStatusCancelled, got.Status)
	}

	// La liberación queda anotada en el libro con el motivo.
	txs, err := f.store.StockLedger().ListByReference("MO-0001 cancelada: cliente desistió")
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	// Cancelar una orden terminal no es válido.
	_, err = f.lifecycle.CancelOrder(context.Background(), testCompany, mo.ID, "de nuevo", testActor)
	assert.ErrorIs(t, err, domain.ErrAlreadyDone)
}

// ──────────────────────────────────────────────────────────────────────────────
// Multi-tenancy
// ──────────────────────────────────────────────────────────────────────────────

func TestOrden_OtraEmpresaNoAccede(t *testing.T) {
	f := newFixture(t)
	mo := f.crearOrden(t, "5")

	_, err := f.orders.GetOrder(context.Background(), "co-ajena", mo.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.sequencer.GenerateWorkOrders(context.Background(), "co-ajena", mo.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.lifecycle.CancelOrder(context.Background(), "co-ajena", mo.ID, "x", testActor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
