package repository

import (
	"context"
	"time"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
)

// ServicePaymentRepository puerto de persistencia para los períodos de
// facturación y sus pagos.
type ServicePaymentRepository interface {
	Create(ctx context.Context, p *entity.ServicePayment) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.ServicePayment, error)
	Update(ctx context.Context, p *entity.ServicePayment) error
	// ListByService devuelve todos los períodos del servicio ordenados por period_start.
	ListByService(ctx context.Context, tenantID, serviceID string) ([]*entity.ServicePayment, error)
	// ListByStatus devuelve los períodos del servicio en alguno de los
	// estados dados, ordenados por period_start.
	ListByStatus(ctx context.Context, tenantID, serviceID string, statuses ...string) ([]*entity.ServicePayment, error)
	// HasOverlap informa si algún período no cancelado del servicio
	// intersecta [start, end], excluyendo opcionalmente un período.
	HasOverlap(ctx context.Context, tenantID, serviceID string, start, end time.Time, excludeID string) (bool, error)
	// MaxActivePeriodEnd devuelve el mayor period_end entre los períodos
	// con estado AWAITING_START, UNPAID_ACTIVE o PAID, o nil si no hay.
	MaxActivePeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error)
	// LastPaid devuelve el último período pagado por fecha de pago, o nil.
	LastPaid(ctx context.Context, tenantID, serviceID string) (*entity.ServicePayment, error)
	// LastPaidPeriodEnd devuelve el mayor period_end entre los pagados, o nil.
	LastPaidPeriodEnd(ctx context.Context, tenantID, serviceID string) (*time.Time, error)
	// DeletePendingFrom purga los períodos aún no consumidos
	// (AWAITING_START, UNPAID_ACTIVE, OVERDUE) con period_start >= from.
	// Devuelve cuántos eliminó. Solo lo usa la cascada de desactivación.
	DeletePendingFrom(ctx context.Context, tenantID, serviceID string, from time.Time) (int, error)
}
