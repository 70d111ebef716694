package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // driver postgres
	_ "github.com/golang-migrate/migrate/v4/source/file"       // origen file://
)

// RunMigrations aplica todas las migraciones pendientes. Sin migraciones
// pendientes no es un error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// RollbackMigrations revierte el esquema el número de pasos indicado.
func RollbackMigrations(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps debe ser mayor a 0, recibido %d", steps)
	}
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return errors.New("no hay migraciones que revertir")
		}
		return fmt.Errorf("revertir %d migración(es): %w", steps, err)
	}
	return nil
}

// MigrationStatus devuelve la versión aplicada y si el estado quedó sucio
// por una migración fallida. Versión 0 significa esquema vacío.
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return 0, false, fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("consultar versión de migración: %w", err)
	}
	return version, dirty, nil
}

// ForceMigrationVersion fija la versión del esquema sin ejecutar nada.
// Solo para recuperar un estado sucio; puede dejar el esquema inconsistente.
func ForceMigrationVersion(dbURL, migrationsPath string, version int) error {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return fmt.Errorf("forzar versión %d: %w", version, err)
	}
	return nil
}
