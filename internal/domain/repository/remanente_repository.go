package repository

import (
	"context"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// RemanenteRepository puerto de persistencia para los tipos de remanente
// y su configuración por línea de negocio.
type RemanenteRepository interface {
	CreateType(ctx context.Context, t *entity.RemanenteType) error
	GetType(ctx context.Context, tenantID, id string) (*entity.RemanenteType, error)
	ListTypes(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.RemanenteType, error)
	// UpsertConfig crea o actualiza la configuración (business_line, tipo).
	UpsertConfig(ctx context.Context, cfg *entity.BusinessLineRemanenteConfig) error
	GetConfig(ctx context.Context, tenantID, businessLineID, remanenteTypeID string) (*entity.BusinessLineRemanenteConfig, error)
	ListConfigsByLine(ctx context.Context, tenantID, businessLineID string) ([]*entity.BusinessLineRemanenteConfig, error)
}
