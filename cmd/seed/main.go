package main

import (
	"context"
	"flag"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/application/catalog"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/servicios-api/pkg/config"
	"github.com/jhoicas/servicios-api/pkg/logger"
)

// Siembra un catálogo de ejemplo y los tipos de remanente habituales para
// un tenant. Pensado para entornos de desarrollo y demo.
func main() {
	tenantID := flag.String("tenant", "", "tenant destino de la siembra")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Name: cfg.App.Name})
	if *tenantID == "" {
		log.Fatal().Msg("el flag -tenant es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lineRepo := postgres.NewBusinessLineRepository(pool)
	serviceRepo := postgres.NewClientServiceRepository(pool)
	remanenteRepo := postgres.NewRemanenteRepository(pool)
	catalogUC := catalog.NewCatalogUseCase(lineRepo, serviceRepo)

	// Árbol de ejemplo: dos verticales con sub-líneas de hasta tres niveles.
	tree := map[string][]string{
		"Peluquería": {"Corte", "Color"},
		"Estética":   {"Manicura", "Depilación"},
	}
	created := 0
	for rootName, children := range tree {
		root, err := catalogUC.CreateLine(ctx, *tenantID, catalog.CreateLineInput{Name: rootName})
		if err != nil {
			log.Fatal().Err(err).Str("line", rootName).Msg("crear línea raíz")
		}
		created++
		for i, childName := range children {
			if _, err := catalogUC.CreateLine(ctx, *tenantID, catalog.CreateLineInput{
				Name:     childName,
				ParentID: &root.ID,
				Order:    i,
			}); err != nil {
				log.Fatal().Err(err).Str("line", childName).Msg("crear sub-línea")
			}
			created++
		}
	}

	// Tipos de remanente habituales. Los montos son ajustes con signo.
	propina := decimal.NewFromInt(5)
	material := decimal.NewFromInt(-10)
	types := []*entity.RemanenteType{
		{TenantID: *tenantID, Name: "Propina", Description: "Propina registrada aparte del pago", DefaultAmount: &propina, IsActive: true},
		{TenantID: *tenantID, Name: "Material", Description: "Coste de material descontado del pago", DefaultAmount: &material, IsActive: true},
	}
	for _, t := range types {
		if err := remanenteRepo.CreateType(ctx, t); err != nil {
			log.Fatal().Err(err).Str("type", t.Name).Msg("crear tipo de remanente")
		}
	}

	log.Info().
		Int("lines", created).
		Int("remanente_types", len(types)).
		Str("tenant", *tenantID).
		Msg("siembra completada")
}
