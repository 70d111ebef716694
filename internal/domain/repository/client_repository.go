package repository

import (
	"context"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// ClientRepository puerto de persistencia para Client.
// Todas las consultas están acotadas por tenant.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Client, error)
	GetByDNI(ctx context.Context, tenantID, dni string) (*entity.Client, error)
	List(ctx context.Context, tenantID string, onlyActive bool, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// SetActive cambia el flag operacional sin tocar el resto de campos.
	SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error
	// SoftDelete marca el borrado lógico (deleted_at).
	SoftDelete(ctx context.Context, tenantID, id string, now time.Time) error
}
