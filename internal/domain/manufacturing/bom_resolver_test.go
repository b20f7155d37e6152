package manufacturing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func bomDePrueba() *entity.BillOfMaterials {
	return &entity.BillOfMaterials{
		ID:          "bom-1",
		CompanyID:   "co-1",
		ProductName: "Mesa",
		Status:      entity.BOMStatusActive,
		Components: []entity.BOMComponent{
			{MaterialID: "madera", QuantityPerUnit: dec("2"), UnitCost: dec("15"), WastePercent: dec("10")},
			{MaterialID: "tornillos", QuantityPerUnit: dec("8"), UnitCost: dec("0.5")},
		},
		Operations: []entity.BOMOperation{
			{Sequence: 20, Name: "Ensamble", ExpectedDuration: 45 * time.Minute},
			{Sequence: 10, Name: "Corte", ExpectedDuration: 30 * time.Minute},
		},
	}
}

// Los componentes se escalan a la cantidad de la orden y las operaciones
// salen ordenadas por secuencia ascendente.
func TestResolveBOM_EscalaComponentesYOrdenaOperaciones(t *testing.T) {
	reqs, err := manufacturing.ResolveBOM(bomDePrueba(), dec("10"))
	require.NoError(t, err)

	require.Len(t, reqs.Components, 2)
	assert.True(t, reqs.Components[0].Quantity.Equal(dec("20")), "2/unidad * 10 unidades = 20")
	assert.True(t, reqs.Components[1].Quantity.Equal(dec("80")), "8/unidad * 10 unidades = 80")
	// La merma NO se incluye en el requerido: se aplica al reservar.
	assert.True(t, reqs.Components[0].WastePercent.Equal(dec("10")))

	require.Len(t, reqs.Operations, 2)
	assert.Equal(t, "Corte", reqs.Operations[0].Name)
	assert.Equal(t, "Ensamble", reqs.Operations[1].Name)
}

func TestResolveBOM_SinOperaciones_EsInvalido(t *testing.T) {
	bom := bomDePrueba()
	bom.Operations = nil
	_, err := manufacturing.ResolveBOM(bom, dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidBOM)
}

func TestResolveBOM_SecuenciasDuplicadas_EsInvalido(t *testing.T) {
	bom := bomDePrueba()
	bom.Operations[1].Sequence = 20 // igual a la primera
	_, err := manufacturing.ResolveBOM(bom, dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidBOM)
}

func TestResolveBOM_CantidadNoPositiva_EsInvalido(t *testing.T) {
	_, err := manufacturing.ResolveBOM(bomDePrueba(), dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuantityWithWaste(t *testing.T) {
	// 20 requerido + 10% de merma = 22
	got := manufacturing.QuantityWithWaste(dec("20"), dec("10"))
	assert.True(t, got.Equal(dec("22")), "esperaba 22, fue %s", got)

	// Sin merma la cantidad no cambia.
	got = manufacturing.QuantityWithWaste(dec("20"), decimal.Zero)
	assert.True(t, got.Equal(dec("20")))
}

func TestWeightedAverageCost(t *testing.T) {
	// (10 uds @ $5) + (10 uds @ $15) => promedio $10
	got := manufacturing.WeightedAverageCost(dec("10"), dec("5"), dec("10"), dec("15"))
	assert.True(t, got.Equal(dec("10")), "esperaba 10, fue %s", got)

	// Primer ingreso sobre stock cero toma el costo de la entrada.
	got = manufacturing.WeightedAverageCost(decimal.Zero, decimal.Zero, dec("4"), dec("7.5"))
	assert.True(t, got.Equal(dec("7.5")))

	// Stock y entrada cero: costo cero, sin división por cero.
	got = manufacturing.WeightedAverageCost(decimal.Zero, dec("9"), decimal.Zero, decimal.Zero)
	assert.True(t, got.Equal(decimal.Zero))
}

func TestProgress(t *testing.T) {
	wos := []*entity.WorkOrder{
		{Status: entity.WOStatusCompleted},
		{Status: entity.WOStatusCompleted},
		{Status: entity.WOStatusInProgress},
		{Status: entity.WOStatusPending},
	}
	assert.Equal(t, 50, manufacturing.Progress(wos), "2 de 4 completadas = 50%%")
	assert.Equal(t, 0, manufacturing.Progress(nil), "sin WOs el progreso es 0")

	todas := []*entity.WorkOrder{{Status: entity.WOStatusCompleted}}
	assert.Equal(t, 100, manufacturing.Progress(todas))
}
