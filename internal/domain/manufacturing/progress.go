package manufacturing

import (
	"math"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Progress calcula el avance (0-100) de una orden a partir de sus work
// orders: round(100 * completadas / totales). Con cero WOs devuelve 0.
func Progress(workOrders []*entity.WorkOrder) int {
	if len(workOrders) == 0 {
		return 0
	}
	completed := 0
	for _, wo := range workOrders {
		if wo.Status == entity.WOStatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(workOrders))))
}
