package payments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/domain/repository"
)

// PaymentUseCase convierte períodos en períodos pagados, extiende servicios
// cobrando por adelantado y gestiona cancelaciones y reembolsos parciales o
// totales. Comparte el TxRunner del motor de períodos: cada operación
// bloquea la fila del servicio, muta el período y resincroniza el end_date
// en una única transacción, de modo que cancelar y reembolsar el mismo
// período son mutuamente excluyentes.
type PaymentUseCase struct {
	txRunner    periods.TxRunner
	serviceRepo repository.ClientServiceRepository
	paymentRepo repository.ServicePaymentRepository
	clock       perioddate.Clock
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner periods.TxRunner,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
	clock perioddate.Clock,
) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, serviceRepo: serviceRepo, paymentRepo: paymentRepo, clock: clock}
}

// PaymentInput datos de un pago sobre un período existente.
type PaymentInput struct {
	Amount          decimal.Decimal
	PaymentDate     time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

// ProcessPayment registra el pago de un período pagable. Los pagos tardíos
// (fecha posterior al fin del período) se aceptan y quedan marcados con
// WasPaidOnTime=false; la fecha de pago no puede ser futura ni anterior al
// inicio del período.
func (uc *PaymentUseCase) ProcessPayment(ctx context.Context, tenantID, periodID string, in PaymentInput) (*entity.ServicePayment, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	payDate := perioddate.Normalize(in.PaymentDate)
	if payDate.After(uc.clock.Today()) {
		return nil, domain.ErrPaymentDateInFuture
	}

	var paid *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		period, svc, err := uc.lockPeriod(ctx, serviceRepo, paymentRepo, tenantID, periodID)
		if err != nil {
			return err
		}

		period.Rederive(uc.clock)
		if !period.CanBePaid() {
			return domain.ErrPeriodNotPayable
		}
		if payDate.Before(period.PeriodStart) {
			return domain.ErrPaymentDateBeforePeriodStart
		}

		onTime := !payDate.After(period.PeriodEnd)
		method := in.PaymentMethod
		period.Amount = &in.Amount
		period.PaymentDate = &payDate
		period.PaymentMethod = &method
		period.ReferenceNumber = in.ReferenceNumber
		period.WasPaidOnTime = &onTime
		period.Status = entity.StatusPaid
		if in.Notes != "" {
			period.Notes = entity.AppendNote(period.Notes, "Pago: "+in.Notes)
		}
		period.UpdatedAt = time.Now()

		if err := paymentRepo.Update(ctx, period); err != nil {
			return err
		}
		if err := periods.ResyncLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc); err != nil {
			return err
		}
		paid = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// ExtendInput datos para crear y pagar el siguiente período en un paso.
type ExtendInput struct {
	Amount          decimal.Decimal
	PaymentMethod   string
	PaymentDate     time.Time
	ExtendMonths    int
	ReferenceNumber string
	Notes           string
}

// CreatePaymentAndExtend calcula el siguiente período — empieza en el día
// posterior al fin actual del servicio o en la fecha de pago, lo que sea
// posterior — y lo crea ya pagado en una sola transacción: o ambas cosas
// ocurren o ninguna. Los servicios dados de baja no admiten extensiones.
func (uc *PaymentUseCase) CreatePaymentAndExtend(ctx context.Context, tenantID, serviceID string, in ExtendInput) (*entity.ServicePayment, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.ExtendMonths <= 0 {
		return nil, domain.ErrInvalidInput
	}
	payDate := perioddate.Normalize(in.PaymentDate)
	if payDate.After(uc.clock.Today()) {
		return nil, domain.ErrPaymentDateInFuture
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

		start := payDate
		if svc.EndDate != nil {
			if next := perioddate.Normalize(*svc.EndDate).AddDate(0, 0, 1); next.After(start) {
				start = next
			}
		}
		end := perioddate.PeriodEnd(start, in.ExtendMonths)

		overlap, err := paymentRepo.HasOverlap(ctx, tenantID, serviceID, start, end, "")
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrOverlappingPeriod
		}

		now := time.Now()
		onTime := true
		method := in.PaymentMethod
		period := &entity.ServicePayment{
			TenantID:        tenantID,
			ClientServiceID: serviceID,
			PeriodStart:     start,
			PeriodEnd:       end,
			Amount:          &in.Amount,
			PaymentDate:     &payDate,
			PaymentMethod:   &method,
			ReferenceNumber: in.ReferenceNumber,
			Status:          entity.StatusPaid,
			WasPaidOnTime:   &onTime,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := paymentRepo.Create(ctx, period); err != nil {
			return err
		}
		if err := periods.ResyncLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc); err != nil {
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

// Cancel marca el período como CANCELLED (solo posible antes de pagarlo),
// añade el motivo a las notas y resincroniza el end_date: cae al último
// período restante no cancelado o queda en nil si no queda ninguno.
func (uc *PaymentUseCase) Cancel(ctx context.Context, tenantID, periodID, reason string) (*entity.ServicePayment, error) {
	var cancelled *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		period, svc, err := uc.lockPeriod(ctx, serviceRepo, paymentRepo, tenantID, periodID)
		if err != nil {
			return err
		}

		period.Rederive(uc.clock)
		if !period.CanBeCancelled() {
			return domain.ErrPeriodNotCancellable
		}

		period.Status = entity.StatusCancelled
		note := "Período cancelado"
		if reason != "" {
			note += " - Motivo: " + reason
		}
		period.Notes = entity.AppendNote(period.Notes, note)
		period.UpdatedAt = time.Now()

		if err := paymentRepo.Update(ctx, period); err != nil {
			return err
		}
		if err := periods.ResyncLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc); err != nil {
			return err
		}
		cancelled = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Refund registra un reembolso parcial o total de un período PAID.
// amount nil reembolsa todo el saldo restante. Cuando lo reembolsado
// alcanza el importe pagado, el estado pasa a REFUNDED.
func (uc *PaymentUseCase) Refund(ctx context.Context, tenantID, periodID string, amount *decimal.Decimal, reason string) (*entity.ServicePayment, error) {
	var refunded *entity.ServicePayment
	err := uc.txRunner.Run(ctx, func(
		serviceRepo repository.ClientServiceRepository,
		paymentRepo repository.ServicePaymentRepository,
	) error {
		period, svc, err := uc.lockPeriod(ctx, serviceRepo, paymentRepo, tenantID, periodID)
		if err != nil {
			return err
		}

		if !period.CanBeRefunded() || period.Amount == nil {
			return domain.ErrPeriodNotRefundable
		}
		remaining := period.Amount.Sub(period.RefundedAmount)
		refundAmount := remaining
		if amount != nil {
			refundAmount = *amount
		}
		if !refundAmount.GreaterThan(decimal.Zero) {
			return domain.ErrNonPositiveRefund
		}
		if refundAmount.GreaterThan(remaining) {
			return domain.ErrRefundExceedsRemaining
		}

		period.RefundedAmount = period.RefundedAmount.Add(refundAmount)
		if period.RefundedAmount.GreaterThanOrEqual(*period.Amount) {
			period.Status = entity.StatusRefunded
		}
		note := fmt.Sprintf("Reembolso de %s", refundAmount.StringFixed(2))
		if reason != "" {
			note += " - Motivo: " + reason
		}
		period.Notes = entity.AppendNote(period.Notes, note)
		period.UpdatedAt = time.Now()

		if err := paymentRepo.Update(ctx, period); err != nil {
			return err
		}
		if err := periods.ResyncLocked(ctx, uc.clock, serviceRepo, paymentRepo, svc); err != nil {
			return err
		}
		refunded = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

// CalculateSuggestedAmount devuelve el importe sugerido para pagar el
// período: el último pago se prorratea por día y se escala a la duración
// del período; sin historial, el precio base del servicio. Es solo una
// pista de interfaz, no un invariante.
func (uc *PaymentUseCase) CalculateSuggestedAmount(ctx context.Context, tenantID, periodID string) (decimal.Decimal, error) {
	period, err := uc.paymentRepo.GetByID(ctx, tenantID, periodID)
	if err != nil {
		return decimal.Zero, err
	}
	if period == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	svc, err := uc.serviceRepo.GetByID(ctx, tenantID, period.ClientServiceID)
	if err != nil {
		return decimal.Zero, err
	}
	if svc == nil {
		return decimal.Zero, domain.ErrNotFound
	}

	last, err := uc.paymentRepo.LastPaid(ctx, tenantID, svc.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if last == nil || last.Amount == nil {
		return svc.Price, nil
	}
	if days := last.DurationDays(); days > 0 {
		daily := last.Amount.Div(decimal.NewFromInt(int64(days)))
		return daily.Mul(decimal.NewFromInt(int64(period.DurationDays()))).Round(2), nil
	}
	return *last.Amount, nil
}

// GetPaymentHistory devuelve los períodos pagados del servicio, del más
// reciente al más antiguo por fecha de pago.
func (uc *PaymentUseCase) GetPaymentHistory(ctx context.Context, tenantID, serviceID string) ([]*entity.ServicePayment, error) {
	paid, err := uc.paymentRepo.ListByStatus(ctx, tenantID, serviceID, entity.StatusPaid, entity.StatusRefunded)
	if err != nil {
		return nil, err
	}
	// ListByStatus ordena por period_start ascendente; el historial se
	// presenta del más reciente al más antiguo.
	for i, j := 0, len(paid)-1; i < j; i, j = i+1, j-1 {
		paid[i], paid[j] = paid[j], paid[i]
	}
	return paid, nil
}

// PaymentTiming resumen de cadencia de pagos de un servicio.
type PaymentTiming struct {
	AvgDaysBetweenPayments *float64
	Frequency              string // Monthly, Quarterly, Irregular, Single payment, No payments
	LastPaymentDaysAgo     *int
}

// AnalyzePaymentTiming clasifica la cadencia de pagos del servicio según
// el intervalo medio entre fechas de pago.
func (uc *PaymentUseCase) AnalyzePaymentTiming(ctx context.Context, tenantID, serviceID string) (PaymentTiming, error) {
	paid, err := uc.paymentRepo.ListByStatus(ctx, tenantID, serviceID, entity.StatusPaid, entity.StatusRefunded)
	if err != nil {
		return PaymentTiming{}, err
	}
	var dates []time.Time
	for _, p := range paid {
		if p.PaymentDate != nil {
			dates = append(dates, perioddate.Normalize(*p.PaymentDate))
		}
	}
	if len(dates) == 0 {
		return PaymentTiming{Frequency: "No payments"}, nil
	}

	today := uc.clock.Today()
	last := dates[len(dates)-1]
	for _, d := range dates {
		if d.After(last) {
			last = d
		}
	}
	daysAgo := perioddate.DaysBetween(last, today)

	if len(dates) == 1 {
		return PaymentTiming{Frequency: "Single payment", LastPaymentDaysAgo: &daysAgo}, nil
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	total := 0
	for i := 1; i < len(dates); i++ {
		total += perioddate.DaysBetween(dates[i-1], dates[i])
	}
	avg := float64(total) / float64(len(dates)-1)

	freq := "Irregular"
	switch {
	case avg <= 40:
		freq = "Monthly"
	case avg <= 100:
		freq = "Quarterly"
	}
	return PaymentTiming{AvgDaysBetweenPayments: &avg, Frequency: freq, LastPaymentDaysAgo: &daysAgo}, nil
}

// lockPeriod carga el período y bloquea la fila de su servicio. El orden
// importa: primero el candado del servicio, después la lectura del período,
// para que pago, cancelación y reembolso concurrentes se serialicen.
func (uc *PaymentUseCase) lockPeriod(
	ctx context.Context,
	serviceRepo repository.ClientServiceRepository,
	paymentRepo repository.ServicePaymentRepository,
	tenantID, periodID string,
) (*entity.ServicePayment, *entity.ClientService, error) {
	period, err := paymentRepo.GetByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, nil, err
	}
	if period == nil {
		return nil, nil, domain.ErrNotFound
	}
	svc, err := serviceRepo.GetForUpdate(ctx, tenantID, period.ClientServiceID)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil {
		return nil, nil, domain.ErrNotFound
	}
	// Releer el período ya con el candado tomado: otra transacción pudo
	// cambiarlo entre la primera lectura y el bloqueo.
	period, err = paymentRepo.GetByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, nil, err
	}
	if period == nil {
		return nil, nil, domain.ErrNotFound
	}
	return period, svc, nil
}
