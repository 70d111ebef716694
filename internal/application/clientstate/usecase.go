package clientstate

import (
	"context"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// ClientStateUseCase congela y descongela clientes completos. Desactivar un
// cliente purga los períodos futuros pendientes de cada servicio activo,
// retrotrae su end_date y lo marca inactivo; reactivar reanuda los
// servicios desde la fecha dada sin períodos retroactivos. Cada cliente se
// procesa dentro de una única transacción.
type ClientStateUseCase struct {
	txRunner  TxRunner
	refresher LineRefresher
	clock     perioddate.Clock
}

// NewClientStateUseCase construye el caso de uso.
func NewClientStateUseCase(txRunner TxRunner, refresher LineRefresher, clock perioddate.Clock) *ClientStateUseCase {
	return &ClientStateUseCase{txRunner: txRunner, refresher: refresher, clock: clock}
}

// CascadeResult resumen de una cascada de activación/desactivación.
type CascadeResult struct {
	ClientID         string
	AffectedServices []string
	AsOfDate         time.Time
	AffectedCount    int
}

// DeactivateClient congela todos los servicios activos del cliente a la
// fecha dada y marca el cliente inactivo. Para cada servicio: elimina los
// períodos pendientes (AWAITING_START, UNPAID_ACTIVE, OVERDUE) que
// empiezan en asOf o después, y deja end_date en min(fin del último
// período pagado, asOf), o asOf si nunca pagó.
func (uc *ClientStateUseCase) DeactivateClient(ctx context.Context, tenantID, clientID string, asOf time.Time) (*CascadeResult, error) {
	asOf = perioddate.Normalize(asOf)
	result := &CascadeResult{ClientID: clientID, AsOfDate: asOf}
	var lineIDs []string

	err := uc.txRunner.Run(ctx, func(
		clientRepo repository.ClientRepository,
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		client, err := clientRepo.GetByID(ctx, tenantID, clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		if !client.IsActive {
			return domain.ErrClientInactive
		}

		active, err := serviceRepo.ListByClient(ctx, tenantID, clientID, true)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, svc := range active {
			if err := uc.freezeService(ctx, serviceRepo, paymentRepo, svc, asOf, now); err != nil {
				return err
			}
			result.AffectedServices = append(result.AffectedServices, svc.ID)
			lineIDs = append(lineIDs, svc.BusinessLineID)
		}

		return clientRepo.SetActive(ctx, tenantID, clientID, false, now)
	})
	if err != nil {
		return nil, err
	}

	result.AffectedCount = len(result.AffectedServices)
	if err := uc.refreshLines(ctx, tenantID, lineIDs); err != nil {
		return nil, err
	}
	return result, nil
}

// ReactivateClient vuelve a activar los servicios congelados del cliente
// con end_date = asOf (el servicio se reanuda sin períodos retroactivos)
// y marca el cliente activo.
func (uc *ClientStateUseCase) ReactivateClient(ctx context.Context, tenantID, clientID string, asOf time.Time) (*CascadeResult, error) {
	asOf = perioddate.Normalize(asOf)
	result := &CascadeResult{ClientID: clientID, AsOfDate: asOf}
	var lineIDs []string

	err := uc.txRunner.Run(ctx, func(
		clientRepo repository.ClientRepository,
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		client, err := clientRepo.GetByID(ctx, tenantID, clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		if client.IsActive {
			return domain.ErrClientAlreadyActive
		}

		frozen, err := serviceRepo.ListByClient(ctx, tenantID, clientID, false)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, svc := range frozen {
			if svc.IsActive {
				continue
			}
			if err := serviceRepo.SetActive(ctx, tenantID, svc.ID, true, now); err != nil {
				return err
			}
			end := asOf
			if err := serviceRepo.UpdateEndDate(ctx, tenantID, svc.ID, &end, now); err != nil {
				return err
			}
			result.AffectedServices = append(result.AffectedServices, svc.ID)
			lineIDs = append(lineIDs, svc.BusinessLineID)
		}

		return clientRepo.SetActive(ctx, tenantID, clientID, true, now)
	})
	if err != nil {
		return nil, err
	}

	result.AffectedCount = len(result.AffectedServices)
	if err := uc.refreshLines(ctx, tenantID, lineIDs); err != nil {
		return nil, err
	}
	return result, nil
}

// freezeService purga los períodos pendientes futuros del servicio y
// retrotrae su end_date. A diferencia de la cancelación explícita, los
// períodos aún no consumidos se eliminan físicamente: nunca llegaron a
// representar valor entregado.
func (uc *ClientStateUseCase) freezeService(
	ctx context.Context,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
	svc *entity.ClientService,
	asOf time.Time,
	now time.Time,
) error {
	if _, err := paymentRepo.DeletePendingFrom(ctx, svc.TenantID, svc.ID, asOf); err != nil {
		return err
	}

	lastPaidEnd, err := paymentRepo.LastPaidPeriodEnd(ctx, svc.TenantID, svc.ID)
	if err != nil {
		return err
	}
	end := asOf
	if lastPaidEnd != nil && lastPaidEnd.Before(asOf) {
		end = perioddate.Normalize(*lastPaidEnd)
	}
	if err := serviceRepo.UpdateEndDate(ctx, svc.TenantID, svc.ID, &end, now); err != nil {
		return err
	}
	return serviceRepo.SetActive(ctx, svc.TenantID, svc.ID, false, now)
}

func (uc *ClientStateUseCase) refreshLines(ctx context.Context, tenantID string, lineIDs []string) error {
	seen := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := uc.refresher.RefreshLineStatus(ctx, tenantID, id); err != nil {
			return err
		}
	}
	return nil
}
