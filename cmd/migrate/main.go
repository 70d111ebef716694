package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/servicios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/servicios-api/pkg/config"
	"github.com/jhoicas/servicios-api/pkg/logger"
)

// Comandos: up (por defecto), down -steps N, status, force -version N.
func main() {
	steps := flag.Int("steps", 1, "número de migraciones a revertir con down")
	version := flag.Int("version", -1, "versión a forzar con force")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Name: cfg.App.Name})

	dbURL := cfg.DB.ConnectionString()
	path := cfg.DB.MigrationsPath

	switch cmd {
	case "up":
		if err := postgres.RunMigrations(dbURL, path); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	case "down":
		if err := postgres.RollbackMigrations(dbURL, path, *steps); err != nil {
			log.Fatal().Err(err).Msg("revertir migraciones")
		}
		log.Info().Int("steps", *steps).Msg("migraciones revertidas")
	case "status":
		v, dirty, err := postgres.MigrationStatus(dbURL, path)
		if err != nil {
			log.Fatal().Err(err).Msg("consultar estado de migraciones")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("estado de migraciones")
	case "force":
		if *version < 0 {
			log.Fatal().Msg("force requiere -version")
		}
		if err := postgres.ForceMigrationVersion(dbURL, path, *version); err != nil {
			log.Fatal().Err(err).Msg("forzar versión")
		}
		log.Info().Int("version", *version).Msg("versión forzada")
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s (usa up, down, status o force)\n", cmd)
		os.Exit(2)
	}
}
