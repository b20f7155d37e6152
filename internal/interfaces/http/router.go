package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MaterialUC    *ledger.MaterialUseCase
	StockUC       *ledger.UseCase
	BOMUC         *manufacturing.BOMUseCase
	OrderUC       *manufacturing.OrderUseCase
	SequencerUC   *manufacturing.SequencerUseCase
	ReservationUC *manufacturing.ReservationUseCase
	WorkOrderUC   *manufacturing.WorkOrderUseCase
	LifecycleUC   *manufacturing.LifecycleUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Mutaciones de inventario y gestión de recetas/órdenes: admin o supervisor.
	manage := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)

	// Materials y libro de inventario (protegido)
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC, deps.StockUC)
	materials.Post("/", manage, materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/ledger", materialHandler.Ledger)
	materials.Post("/:id/adjust", manage, materialHandler.Adjust)
	materials.Post("/:id/reserve", manage, materialHandler.Reserve)
	materials.Post("/:id/unreserve", manage, materialHandler.Unreserve)

	// BOMs (protegido)
	boms := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", manage, bomHandler.Create)
	boms.Get("/", bomHandler.List)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Put("/:id", manage, bomHandler.Update)
	boms.Post("/:id/activate", manage, bomHandler.Activate)
	boms.Post("/:id/archive", manage, bomHandler.Archive)

	// Manufacturing orders (protegido)
	orders := protected.Group("/manufacturing-orders")
	moHandler := NewManufacturingHandler(deps.OrderUC, deps.SequencerUC, deps.ReservationUC, deps.LifecycleUC)
	orders.Post("/", manage, moHandler.Create)
	orders.Get("/", moHandler.List)
	orders.Get("/:id", moHandler.GetByID)
	orders.Get("/:id/work-orders", moHandler.ListWorkOrders)
	orders.Post("/:id/generate-work-orders", manage, moHandler.GenerateWorkOrders)
	orders.Post("/:id/reserve", manage, moHandler.Reserve)
	orders.Post("/:id/complete", manage, moHandler.Complete)
	orders.Post("/:id/cancel", manage, moHandler.Cancel)
	orders.Post("/:id/recompute-progress", moHandler.RecomputeProgress)

	// Work orders (protegido; los operarios ejecutan su ciclo de vida)
	workOrders := protected.Group("/work-orders")
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	workOrders.Get("/:id", woHandler.GetByID)
	workOrders.Post("/:id/start", woHandler.Start)
	workOrders.Post("/:id/pause", woHandler.Pause)
	workOrders.Post("/:id/resume", woHandler.Resume)
	workOrders.Post("/:id/complete", woHandler.Complete)
	workOrders.Post("/:id/cancel", manage, woHandler.Cancel)
	workOrders.Post("/:id/fail", woHandler.Fail)
}
