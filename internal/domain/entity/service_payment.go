package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
)

// Estados del ciclo de vida de un período de facturación.
// PAID, CANCELLED y REFUNDED son terminales: solo cambian por operación
// explícita. Los demás se re-derivan de la fecha actual en cada guardado.
const (
	StatusAwaitingStart = "AWAITING_START" // creado, aún no ha empezado
	StatusUnpaidActive  = "UNPAID_ACTIVE"  // en curso sin pago
	StatusOverdue       = "OVERDUE"        // terminado sin pago
	StatusPaid          = "PAID"
	StatusCancelled     = "CANCELLED"
	StatusRefunded      = "REFUNDED"
)

// ServicePayment es un período de facturación de un ClientService con su
// pago opcional. Un período creado "solo período" tiene Amount, PaymentDate
// y PaymentMethod en nil. Invariante: para un mismo servicio, dos períodos
// no cancelados nunca se solapan.
type ServicePayment struct {
	ID              string
	TenantID        string
	ClientServiceID string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Amount          *decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethod   *string
	ReferenceNumber string
	Status          string
	RefundedAmount  decimal.Decimal
	Remanente       *decimal.Decimal
	WasPaidOnTime   *bool
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NetAmount devuelve amount - refunded_amount, o nil si no hay pago.
func (p *ServicePayment) NetAmount() *decimal.Decimal {
	if p.Amount == nil {
		return nil
	}
	net := p.Amount.Sub(p.RefundedAmount)
	return &net
}

// IsTerminal informa si el estado solo cambia por operación explícita.
func (p *ServicePayment) IsTerminal() bool {
	switch p.Status {
	case StatusPaid, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// CanBePaid informa si el período admite un pago. Incluye OVERDUE: los
// pagos tardíos se aceptan y se marcan con WasPaidOnTime=false en lugar
// de rechazarse, porque la analítica de puntualidad depende de ellos.
func (p *ServicePayment) CanBePaid() bool {
	switch p.Status {
	case StatusAwaitingStart, StatusUnpaidActive, StatusOverdue:
		return true
	}
	return false
}

// CanBeCancelled informa si el período admite cancelación.
func (p *ServicePayment) CanBeCancelled() bool {
	switch p.Status {
	case StatusAwaitingStart, StatusUnpaidActive, StatusOverdue:
		return true
	}
	return false
}

// CanBeRefunded informa si el período admite reembolso (solo pagados).
func (p *ServicePayment) CanBeRefunded() bool {
	return p.Status == StatusPaid
}

// ComputeStatus deriva el estado no terminal a partir de hoy y los límites
// del período. Si el estado actual es terminal lo devuelve sin cambios.
func (p *ServicePayment) ComputeStatus(today time.Time) string {
	if p.IsTerminal() {
		return p.Status
	}
	today = perioddate.Normalize(today)
	switch {
	case today.Before(p.PeriodStart):
		return StatusAwaitingStart
	case today.After(p.PeriodEnd):
		return StatusOverdue
	default:
		return StatusUnpaidActive
	}
}

// Rederive aplica ComputeStatus sobre el propio período.
func (p *ServicePayment) Rederive(clock perioddate.Clock) {
	p.Status = p.ComputeStatus(clock.Today())
}

// DurationDays duración inclusiva del período en días.
func (p *ServicePayment) DurationDays() int {
	return perioddate.DurationDays(p.PeriodStart, p.PeriodEnd)
}

// Overlaps informa si [PeriodStart, PeriodEnd] intersecta [start, end].
func (p *ServicePayment) Overlaps(start, end time.Time) bool {
	return !p.PeriodStart.After(end) && !p.PeriodEnd.Before(start)
}
