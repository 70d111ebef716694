package periods

import (
	"context"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// PeriodUseCase es el motor de ciclo de vida de períodos: valida y crea
// períodos, deriva su estado, garantiza el no-solape y mantiene en sincronía
// el end_date cacheado del servicio. Toda mutación corre dentro de una
// transacción con la fila del servicio bloqueada (SELECT FOR UPDATE), de
// modo que dos creaciones concurrentes sobre el mismo servicio se serializan.
type PeriodUseCase struct {
	txRunner    TxRunner
	paymentRepo repository.ServicePaymentRepository
	clock       perioddate.Clock
}

// NewPeriodUseCase construye el caso de uso.
func NewPeriodUseCase(txRunner TxRunner, paymentRepo repository.ServicePaymentRepository, clock perioddate.Clock) *PeriodUseCase {
	return &PeriodUseCase{txRunner: txRunner, paymentRepo: paymentRepo, clock: clock}
}

// CreatePeriod valida e inserta un período sin pago ("solo período") para
// el servicio. Falla con ErrInvalidRange si start >= end, con
// ErrOverlappingPeriod si intersecta un período no cancelado existente y
// con ErrServiceInactive si el servicio está dado de baja.
// Resincroniza el end_date del servicio en la misma transacción.
func (uc *PeriodUseCase) CreatePeriod(ctx context.Context, tenantID, serviceID string, start, end time.Time, notes string) (*entity.ServicePayment, error) {
	start, end = perioddate.Normalize(start), perioddate.Normalize(end)
	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	var created *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		svc, err := serviceRepo.GetForUpdate(ctx, tenantID, serviceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrNotFound
		}
		if !svc.IsActive {
			return domain.ErrServiceInactive
		}
		period, err := createPeriodLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc, start, end, notes)
		if err != nil {
			return err
		}
		created = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ExtendService crea el siguiente período del servicio. Con months > 0 el
// fin se calcula con aritmética de meses (día ajustado a fin de mes); con
// targetDate se extiende hasta esa fecha exacta. Falla con
// ErrNonIncreasingExtension si la fecha objetivo no supera el fin actual.
func (uc *PeriodUseCase) ExtendService(ctx context.Context, tenantID, serviceID string, months int, targetDate *time.Time, notes string) (*entity.ServicePayment, error) {
	if targetDate == nil && months <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		svc, err := serviceRepo.GetForUpdate(ctx, tenantID, serviceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrNotFound
		}
		if !svc.IsActive {
			return domain.ErrServiceInactive
		}

		start := nextPeriodStart(uc.clock, svc)
		var end time.Time
		if targetDate != nil {
			end = perioddate.Normalize(*targetDate)
			if svc.EndDate != nil && !end.After(perioddate.Normalize(*svc.EndDate)) {
				return domain.ErrNonIncreasingExtension
			}
		} else {
			end = perioddate.PeriodEnd(start, months)
		}
		if !start.Before(end) {
			return domain.ErrInvalidRange
		}

		period, err := createPeriodLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc, start, end, notes)
		if err != nil {
			return err
		}
		created = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetPendingPeriods devuelve los períodos pendientes de pago
// (AWAITING_START y UNPAID_ACTIVE) ordenados por inicio; se usan para
// ofrecer el pago diferido de períodos ya creados.
func (uc *PeriodUseCase) GetPendingPeriods(ctx context.Context, tenantID, serviceID string) ([]*entity.ServicePayment, error) {
	return uc.paymentRepo.ListByStatus(ctx, tenantID, serviceID,
		entity.StatusAwaitingStart, entity.StatusUnpaidActive)
}

// ResyncEndDate re-deriva los estados no terminales y recalcula el
// end_date cacheado del servicio dentro de una transacción propia.
// Los mutadores del motor ya lo hacen en la suya; esta operación existe
// para recomputaciones explícitas (mantenimiento, reparación).
func (uc *PeriodUseCase) ResyncEndDate(ctx context.Context, tenantID, serviceID string) error {
	return uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		svc, err := serviceRepo.GetForUpdate(ctx, tenantID, serviceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrNotFound
		}
		return ResyncLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc)
	})
}

// nextPeriodStart devuelve el día siguiente al fin actual del servicio,
// o su fecha de inicio (o hoy) si todavía no tiene períodos.
func nextPeriodStart(clock perioddate.Clock, svc *entity.ClientService) time.Time {
	if svc.EndDate != nil {
		return perioddate.Normalize(*svc.EndDate).AddDate(0, 0, 1)
	}
	if svc.StartDate != nil {
		return perioddate.Normalize(*svc.StartDate)
	}
	return clock.Today()
}

// createPeriodLocked inserta el período y resincroniza el end_date usando
// los repos de la transacción en curso. El caller debe tener la fila del
// servicio bloqueada.
func createPeriodLocked(
	ctx context.Context,
	clock perioddate.Clock,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
	svc *entity.ClientService,
	start, end time.Time,
	notes string,
) (*entity.ServicePayment, error) {
	overlap, err := paymentRepo.HasOverlap(ctx, svc.TenantID, svc.ID, start, end, "")
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrOverlappingPeriod
	}

	now := time.Now()
	period := &entity.ServicePayment{
		TenantID:        svc.TenantID,
		ClientServiceID: svc.ID,
		PeriodStart:     start,
		PeriodEnd:       end,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	period.Status = period.ComputeStatus(clock.Today())

	if err := paymentRepo.Create(ctx, period); err != nil {
		return nil, err
	}
	if err := ResyncLocked(ctx, clock, serviceRepo, paymentRepo, svc); err != nil {
		return nil, err
	}
	return period, nil
}

// ResyncLocked re-deriva los estados no terminales del servicio y deja su
// end_date igual al mayor period_end entre los períodos AWAITING_START,
// UNPAID_ACTIVE y PAID (nil si no queda ninguno). Debe ejecutarse tras
// cada alta, cancelación, reembolso o cambio de estado, dentro de la misma
// transacción y con la fila del servicio bloqueada.
func ResyncLocked(
	ctx context.Context,
	clock perioddate.Clock,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
	svc *entity.ClientService,
) error {
	all, err := paymentRepo.ListByService(ctx, svc.TenantID, svc.ID)
	if err != nil {
		return err
	}
	today := clock.Today()
	for _, p := range all {
		if p.IsTerminal() {
			continue
		}
		if derived := p.ComputeStatus(today); derived != p.Status {
			p.Status = derived
			p.UpdatedAt = time.Now()
			if err := paymentRepo.Update(ctx, p); err != nil {
				return err
			}
		}
	}

	maxEnd, err := paymentRepo.MaxActivePeriodEnd(ctx, svc.TenantID, svc.ID)
	if err != nil {
		return err
	}
	svc.EndDate = maxEnd
	return serviceRepo.UpdateEndDate(ctx, svc.TenantID, svc.ID, maxEnd, time.Now())
}
