package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/catalog"
	"github.com/jhoicas/servicios-api/internal/application/clients"
	"github.com/jhoicas/servicios-api/internal/application/clientstate"
	"github.com/jhoicas/servicios-api/internal/application/payments"
	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/application/remanentes"
	"github.com/jhoicas/servicios-api/internal/application/stats"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC      *clients.ClientUseCase
	ClientStateUC *clientstate.ClientStateUseCase
	CatalogUC     *catalog.CatalogUseCase
	PeriodUC      *periods.PeriodUseCase
	PaymentUC     *payments.PaymentUseCase
	RemanenteUC   *remanentes.RemanenteUseCase
	StatsUC       *stats.StatsUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clientes
	clientsGroup := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.ClientStateUC)
	clientsGroup.Post("/", clientHandler.Create)
	clientsGroup.Get("/", clientHandler.List)
	clientsGroup.Get("/:id", clientHandler.GetByID)
	clientsGroup.Put("/:id", clientHandler.Update)
	clientsGroup.Delete("/:id", clientHandler.Delete)
	clientsGroup.Post("/:id/deactivate", clientHandler.Deactivate)
	clientsGroup.Post("/:id/reactivate", clientHandler.Reactivate)
	clientsGroup.Get("/:id/services", clientHandler.ListServices)

	// Catálogo de líneas de negocio
	lines := protected.Group("/business-lines")
	lineHandler := NewBusinessLineHandler(deps.CatalogUC)
	remanenteHandler := NewRemanenteHandler(deps.RemanenteUC)
	lines.Post("/", lineHandler.Create)
	lines.Get("/", lineHandler.List)
	lines.Get("/resolve/*", lineHandler.Resolve)
	lines.Get("/:id", lineHandler.GetByID)
	lines.Patch("/:id/move", lineHandler.Move)
	lines.Post("/:id/refresh", lineHandler.Refresh)
	lines.Put("/:id/remanentes", remanenteHandler.ConfigureLine)
	lines.Get("/:id/remanentes", remanenteHandler.ListLineConfigs)

	// Servicios contratados
	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.ClientUC)
	periodHandler := NewPeriodHandler(deps.PeriodUC)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	services.Post("/", serviceHandler.Contract)
	services.Patch("/:id/status", serviceHandler.SetStatus)
	services.Post("/:id/periods", periodHandler.Create)
	services.Get("/:id/periods/pending", periodHandler.ListPending)
	services.Post("/:id/extend", periodHandler.Extend)
	services.Post("/:id/resync", periodHandler.Resync)
	services.Post("/:id/pay-extend", paymentHandler.PayAndExtend)
	services.Get("/:id/payments", paymentHandler.History)
	services.Get("/:id/payment-timing", paymentHandler.Timing)

	// Períodos de facturación
	periodsGroup := protected.Group("/periods")
	periodsGroup.Post("/:id/pay", paymentHandler.Pay)
	periodsGroup.Post("/:id/cancel", paymentHandler.Cancel)
	periodsGroup.Post("/:id/refund", paymentHandler.Refund)
	periodsGroup.Get("/:id/suggested-amount", paymentHandler.SuggestedAmount)
	periodsGroup.Post("/:id/remanente", remanenteHandler.Attach)
	periodsGroup.Delete("/:id/remanente", remanenteHandler.Clear)

	// Tipos de remanente
	remanentesGroup := protected.Group("/remanentes")
	remanentesGroup.Post("/types", remanenteHandler.CreateType)
	remanentesGroup.Get("/types", remanenteHandler.ListTypes)

	// Estadísticas de ingresos
	statsGroup := protected.Group("/stats")
	statsHandler := NewStatsHandler(deps.StatsUC)
	statsGroup.Get("/net-revenue", statsHandler.NetRevenue)
	statsGroup.Get("/summary", statsHandler.Summary)
	statsGroup.Get("/clients/top", statsHandler.ClientRanking)
	statsGroup.Get("/monthly", statsHandler.MonthlyTrend)
}
