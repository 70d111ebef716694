package clients

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// LineRefresher recalcula el estado activo de una línea de negocio tras
// cambiar sus servicios. Lo implementa el caso de uso de catálogo.
type LineRefresher interface {
	RefreshLineStatus(ctx context.Context, tenantID, lineID string) error
}

// ClientUseCase gestiona el alta y mantenimiento de clientes y la
// contratación de servicios sobre líneas de negocio. La activación y
// desactivación en cascada vive en el paquete clientstate.
type ClientUseCase struct {
	clientRepo  repository.ClientRepository
	serviceRepo repository.ClientServiceRepository
	lineRepo    repository.BusinessLineRepository
	refresher   LineRefresher
	clock       perioddate.Clock
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(
	clientRepo repository.ClientRepository,
	serviceRepo repository.ClientServiceRepository,
	lineRepo repository.BusinessLineRepository,
	refresher LineRefresher,
	clock perioddate.Clock,
) *ClientUseCase {
	return &ClientUseCase{
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		lineRepo:    lineRepo,
		refresher:   refresher,
		clock:       clock,
	}
}

// CreateClientInput datos de alta de un cliente.
type CreateClientInput struct {
	FullName string
	DNI      string
	Email    string
	Phone    string
	Notes    string
}

// CreateClient da de alta un cliente. El DNI es único por tenant.
func (uc *ClientUseCase) CreateClient(ctx context.Context, tenantID string, in CreateClientInput) (*entity.Client, error) {
	if in.FullName == "" || in.DNI == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.clientRepo.GetByDNI(ctx, tenantID, in.DNI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	client := &entity.Client{
		TenantID:  tenantID,
		FullName:  in.FullName,
		DNI:       in.DNI,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient carga un cliente por ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, tenantID, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// ListClients lista clientes del tenant con paginación.
func (uc *ClientUseCase) ListClients(ctx context.Context, tenantID string, onlyActive bool, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.clientRepo.List(ctx, tenantID, onlyActive, limit, offset)
}

// UpdateClientInput campos editables de un cliente.
type UpdateClientInput struct {
	FullName string
	Email    string
	Phone    string
	Notes    string
}

// UpdateClient actualiza los datos de contacto del cliente.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, tenantID, id string, in UpdateClientInput) (*entity.Client, error) {
	client, err := uc.GetClient(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		client.FullName = in.FullName
	}
	client.Email = in.Email
	client.Phone = in.Phone
	client.Notes = in.Notes
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient borra lógicamente al cliente (deleted_at).
func (uc *ClientUseCase) DeleteClient(ctx context.Context, tenantID, id string) error {
	if _, err := uc.GetClient(ctx, tenantID, id); err != nil {
		return err
	}
	return uc.clientRepo.SoftDelete(ctx, tenantID, id, time.Now())
}

// ContractServiceInput datos de contratación de un servicio.
type ContractServiceInput struct {
	ClientID       string
	BusinessLineID string
	Category       string
	Price          decimal.Decimal
	StartDate      *time.Time
	Notes          string
}

// ContractService contrata una línea de negocio para un cliente activo.
// El servicio nace activo y sin períodos: el end_date cacheado queda nil
// hasta que el motor de períodos cree el primero. Tras persistir se
// recalcula el estado de la línea.
func (uc *ClientUseCase) ContractService(ctx context.Context, tenantID string, in ContractServiceInput) (*entity.ClientService, error) {
	if !entity.ValidCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.GetClient(ctx, tenantID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, domain.ErrClientInactive
	}
	line, err := uc.lineRepo.GetByID(ctx, tenantID, in.BusinessLineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNodeNotFound
	}

	start := in.StartDate
	if start == nil {
		today := uc.clock.Today()
		start = &today
	} else {
		d := perioddate.Normalize(*start)
		start = &d
	}

	now := time.Now()
	svc := &entity.ClientService{
		TenantID:       tenantID,
		ClientID:       in.ClientID,
		BusinessLineID: in.BusinessLineID,
		Category:       in.Category,
		Price:          in.Price,
		AdminStatus:    entity.AdminStatusEnabled,
		StartDate:      start,
		IsActive:       true,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	if err := uc.refresher.RefreshLineStatus(ctx, tenantID, in.BusinessLineID); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices lista los servicios contratados por un cliente.
func (uc *ClientUseCase) ListServices(ctx context.Context, tenantID, clientID string, onlyActive bool) ([]*entity.ClientService, error) {
	return uc.serviceRepo.ListByClient(ctx, tenantID, clientID, onlyActive)
}

// SetServiceAdminStatus cambia el estado administrativo del servicio
// (ENABLED/SUSPENDED), independiente del estado operacional.
func (uc *ClientUseCase) SetServiceAdminStatus(ctx context.Context, tenantID, serviceID, status string) (*entity.ClientService, error) {
	if status != entity.AdminStatusEnabled && status != entity.AdminStatusSuspended {
		return nil, domain.ErrInvalidInput
	}
	svc, err := uc.serviceRepo.GetByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	svc.AdminStatus = status
	svc.UpdatedAt = time.Now()
	if err := uc.serviceRepo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}
