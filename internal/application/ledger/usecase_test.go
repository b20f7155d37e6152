package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
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

type fixture struct {
	store     *memory.Store
	stock     *ledger.UseCase
	materials *ledger.MaterialUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return &fixture{
		store:     store,
		stock:     ledger.NewUseCase(store, log),
		materials: ledger.NewMaterialUseCase(store.Materials(), store.StockLedger()),
	}
}

func (f *fixture) crearMaterial(t *testing.T, code string) *entity.Material {
	t.Helper()
	m, err := f.materials.CreateMaterial(context.Background(), ledger.CreateMaterialInput{
		CompanyID:   testCompany,
		Code:        code,
		Name:        "Material " + code,
		UnitMeasure: "kg",
		Actor:       testActor,
	})
	require.NoError(t, err)
	require.True(t, m.OnHand.IsZero(), "el material nace con contadores en cero")
	return m
}

func (f *fixture) material(t *testing.T, id string) *entity.Material {
	t.Helper()
	m, err := f.store.Materials().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

// Cada entrada recalcula el costo promedio ponderado.
func TestAdjustStock_EntradaRecalculaCostoPromedio(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-01")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("5"), Actor: testActor,
	})
	require.NoError(t, err)

	_, err = f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("15"), Actor: testActor,
	})
	require.NoError(t, err)

	got := f.material(t, m.ID)
	assert.True(t, got.OnHand.Equal(dec("20")))
	assert.True(t, got.Cost.Equal(dec("10")), "promedio de (10@5 + 10@15) = 10, fue %s", got.Cost)
}

// Toda mutación deja exactamente una transacción en el libro.
func TestAdjustStock_CadaMutacionDejaUnaTransaccion(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-02")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("2"), Actor: testActor,
	})
	require.NoError(t, err)
	_, err = f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeOUT, Quantity: dec("4"), Actor: testActor,
	})
	require.NoError(t, err)

	txs, err := f.materials.ListLedger(context.Background(), testCompany, m.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

// Una salida mayor que el stock físico no es error: OnHand queda en cero.
func TestAdjustStock_SalidaMayorQueStock_RecortaEnCero(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-03")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("5"), UnitCost: dec("1"), Actor: testActor,
	})
	require.NoError(t, err)

	_, err = f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeOUT, Quantity: dec("50"), Actor: testActor,
	})
	require.NoError(t, err, "el recorte en cero no es error")

	got := f.material(t, m.ID)
	assert.True(t, got.OnHand.IsZero())
}

// ADJUSTMENT fija el valor absoluto, no suma ni resta.
func TestAdjustStock_AjusteFijaValorAbsoluto(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-04")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("8"), UnitCost: dec("1"), Actor: testActor,
	})
	require.NoError(t, err)

	_, err = f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeADJUSTMENT, Quantity: dec("3"), Actor: testActor,
	})
	require.NoError(t, err)

	got := f.material(t, m.ID)
	assert.True(t, got.OnHand.Equal(dec("3")))
}

// Reservar más que el disponible falla sin tocar contadores ni libro.
func TestReserve_DisponibleInsuficiente(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-05")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("1"), Actor: testActor,
	})
	require.NoError(t, err)

	_, err = f.stock.Reserve(context.Background(), testCompany, m.ID, dec("11"), "MO-0001", testActor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got := f.material(t, m.ID)
	assert.True(t, got.Reserved.IsZero(), "la reserva fallida no debe tocar Reserved")

	txs, err := f.materials.ListLedger(context.Background(), testCompany, m.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 1, "solo la entrada inicial; la reserva fallida no deja transacción")
}

// Reservar y liberar devuelve el disponible al punto de partida.
func TestReserveUnreserve_RoundTrip(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-06")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("1"), Actor: testActor,
	})
	require.NoError(t, err)

	_, err = f.stock.Reserve(context.Background(), testCompany, m.ID, dec("6"), "MO-0001", testActor)
	require.NoError(t, err)

	got := f.material(t, m.ID)
	assert.True(t, got.Reserved.Equal(dec("6")))
	assert.True(t, got.Available().Equal(dec("4")))

	_, err = f.stock.Unreserve(context.Background(), testCompany, m.ID, dec("6"), "MO-0001", testActor)
	require.NoError(t, err)

	got = f.material(t, m.ID)
	assert.True(t, got.Reserved.IsZero())
	assert.True(t, got.Available().Equal(dec("10")))
	assert.True(t, got.OnHand.Equal(dec("10")), "reservar/liberar nunca toca OnHand")
}

// Una salida que deja OnHand por debajo de Reserved recorta Reserved.
func TestAdjustStock_SalidaRestableceInvariante(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-07")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeIN, Quantity: dec("10"), UnitCost: dec("1"), Actor: testActor,
	})
	require.NoError(t, err)
	_, err = f.stock.Reserve(context.Background(), testCompany, m.ID, dec("8"), "MO-0001", testActor)
	require.NoError(t, err)

	_, err = f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: testCompany,
		Type: entity.TransactionTypeOUT, Quantity: dec("7"), Actor: testActor,
	})
	require.NoError(t, err)

	got := f.material(t, m.ID)
	assert.True(t, got.OnHand.Equal(dec("3")))
	assert.True(t, got.Reserved.Equal(dec("3")), "Reserved recortado a OnHand, fue %s", got.Reserved)
	assert.False(t, got.Reserved.GreaterThan(got.OnHand), "invariante Reserved <= OnHand")
}

// Los materiales de otra empresa no son alcanzables.
func TestAdjustStock_OtraEmpresa_Forbidden(t *testing.T) {
	f := newFixture(t)
	m := f.crearMaterial(t, "MAT-08")

	_, err := f.stock.AdjustStock(context.Background(), ledger.AdjustInput{
		MaterialID: m.ID, CompanyID: "co-ajena",
		Type: entity.TransactionTypeIN, Quantity: dec("1"), UnitCost: dec("1"), Actor: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateMaterial_CodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	f.crearMaterial(t, "MAT-09")

	_, err := f.materials.CreateMaterial(context.Background(), ledger.CreateMaterialInput{
		CompanyID: testCompany, Code: "MAT-09", Name: "Duplicado", Actor: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
