package repository

import (
	"context"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// ClientServiceRepository puerto de persistencia para ClientService.
type ClientServiceRepository interface {
	Create(ctx context.Context, svc *entity.ClientService) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.ClientService, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) durante la
	// transacción en curso. Es el candado que serializa la creación de
	// períodos, pagos, cancelaciones y reembolsos del mismo servicio.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.ClientService, error)
	ListByClient(ctx context.Context, tenantID, clientID string, onlyActive bool) ([]*entity.ClientService, error)
	Update(ctx context.Context, svc *entity.ClientService) error
	// UpdateEndDate resincroniza la fecha de fin cacheada (nil la anula).
	UpdateEndDate(ctx context.Context, tenantID, id string, endDate *time.Time, now time.Time) error
	SetActive(ctx context.Context, tenantID, id string, active bool, now time.Time) error
	// HasActiveByLine informa si la línea tiene algún servicio activo directo.
	HasActiveByLine(ctx context.Context, tenantID, lineID string) (bool, error)
}
