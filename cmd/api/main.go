package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/servicios-api/internal/application/catalog"
	"github.com/jhoicas/servicios-api/internal/application/clients"
	"github.com/jhoicas/servicios-api/internal/application/clientstate"
	"github.com/jhoicas/servicios-api/internal/application/payments"
	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/application/remanentes"
	"github.com/jhoicas/servicios-api/internal/application/stats"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/servicios-api/internal/interfaces/http"
	"github.com/jhoicas/servicios-api/pkg/config"
	"github.com/jhoicas/servicios-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	lineRepo := postgres.NewBusinessLineRepository(pool)
	serviceRepo := postgres.NewClientServiceRepository(pool)
	paymentRepo := postgres.NewServicePaymentRepository(pool)
	remanenteRepo := postgres.NewRemanenteRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	cascadeRunner := postgres.NewCascadeTxRunner(pool)

	clock := perioddate.SystemClock{}
	catalogUC := catalog.NewCatalogUseCase(lineRepo, serviceRepo)
	periodUC := periods.NewPeriodUseCase(txRunner, paymentRepo, clock)
	paymentUC := payments.NewPaymentUseCase(txRunner, serviceRepo, paymentRepo, clock)
	clientStateUC := clientstate.NewClientStateUseCase(cascadeRunner, catalogUC, clock)
	clientUC := clients.NewClientUseCase(clientRepo, serviceRepo, lineRepo, catalogUC, clock)
	remanenteUC := remanentes.NewRemanenteUseCase(txRunner, remanenteRepo, serviceRepo, paymentRepo)
	statsUC := stats.NewStatsUseCase(statsRepo, catalogUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Servicios API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:      clientUC,
		ClientStateUC: clientStateUC,
		CatalogUC:     catalogUC,
		PeriodUC:      periodUC,
		PaymentUC:     paymentUC,
		RemanenteUC:   remanenteUC,
		StatsUC:       statsUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
