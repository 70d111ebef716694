package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicios-api/internal/application/payments"
	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/testutil"
)

const tenant = "tenant-1"

type fixture struct {
	uc       *payments.PaymentUseCase
	periods  *periods.PeriodUseCase
	services *testutil.ServiceRepo
	payments *testutil.PaymentRepo
	svc      *entity.ClientService
}

func newFixture(t *testing.T, today time.Time) *fixture {
	t.Helper()
	services := testutil.NewServiceRepo()
	paymentRepo := testutil.NewPaymentRepo()
	tx := testutil.EngineTx{Services: services, Payments: paymentRepo}
	clock := perioddate.FixedClock{Date: today}

	svc := &entity.ClientService{
		TenantID:       tenant,
		ClientID:       "client-1",
		BusinessLineID: "line-1",
		Category:       entity.CategoryWhite,
		Price:          decimal.NewFromInt(100),
		AdminStatus:    entity.AdminStatusEnabled,
		IsActive:       true,
	}
	require.NoError(t, services.Create(context.Background(), svc))

	return &fixture{
		uc:       payments.NewPaymentUseCase(tx, services, paymentRepo, clock),
		periods:  periods.NewPeriodUseCase(tx, paymentRepo, clock),
		services: services,
		payments: paymentRepo,
		svc:      svc,
	}
}

func (f *fixture) createPeriod(t *testing.T, start, end time.Time) *entity.ServicePayment {
	t.Helper()
	p, err := f.periods.CreatePeriod(context.Background(), tenant, f.svc.ID, start, end, "")
	require.NoError(t, err)
	return p
}

func TestProcessPayment_PagoPuntual(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))

	paid, err := f.uc.ProcessPayment(context.Background(), tenant, p.ID, payments.PaymentInput{
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   perioddate.Date(2024, time.June, 15),
		PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	require.NotNil(t, paid.WasPaidOnTime)
	assert.True(t, *paid.WasPaidOnTime)
	assert.True(t, paid.Amount.Equal(decimal.NewFromInt(100)))
}

func TestProcessPayment_PagoTardioAceptadoYMarcado(t *testing.T) {
	// El período terminó el 30 de junio; hoy es 10 de julio y está OVERDUE.
	f := newFixture(t, perioddate.Date(2024, time.July, 10))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	require.Equal(t, entity.StatusOverdue, p.Status)

	paid, err := f.uc.ProcessPayment(context.Background(), tenant, p.ID, payments.PaymentInput{
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   perioddate.Date(2024, time.July, 10),
		PaymentMethod: entity.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	require.NotNil(t, paid.WasPaidOnTime)
	assert.False(t, *paid.WasPaidOnTime)
}

func TestProcessPayment_Validaciones(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	ctx := context.Background()

	_, err := f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.Zero, PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: entity.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: "CHEQUE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 20), PaymentMethod: entity.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentDateInFuture)

	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.May, 20), PaymentMethod: entity.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentDateBeforePeriodStart)
}

func TestProcessPayment_PeriodoNoPagable(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	ctx := context.Background()

	in := payments.PaymentInput{
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   perioddate.Date(2024, time.June, 15),
		PaymentMethod: entity.PaymentMethodCash,
	}
	_, err := f.uc.ProcessPayment(ctx, tenant, p.ID, in)
	require.NoError(t, err)

	// Pagar dos veces el mismo período no es posible.
	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, in)
	assert.ErrorIs(t, err, domain.ErrPeriodNotPayable)
}

func TestCreatePaymentAndExtend(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.January, 31))
	p := f.createPeriod(t, perioddate.Date(2024, time.January, 1), perioddate.Date(2024, time.January, 31))
	_, err := f.uc.ProcessPayment(context.Background(), tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.January, 31), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	// Extiende un mes desde el día siguiente al fin actual.
	created, err := f.uc.CreatePaymentAndExtend(context.Background(), tenant, f.svc.ID, payments.ExtendInput{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: entity.PaymentMethodCard,
		PaymentDate:   perioddate.Date(2024, time.January, 31),
		ExtendMonths:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, created.Status)
	assert.True(t, created.PeriodStart.Equal(perioddate.Date(2024, time.February, 1)))
	assert.True(t, created.PeriodEnd.Equal(perioddate.Date(2024, time.February, 29)))

	stored, err := f.services.GetByID(context.Background(), tenant, f.svc.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.February, 29)))
}

func TestCreatePaymentAndExtend_SinPeriodosArrancaEnFechaDePago(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.March, 10))

	created, err := f.uc.CreatePaymentAndExtend(context.Background(), tenant, f.svc.ID, payments.ExtendInput{
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: entity.PaymentMethodBizum,
		PaymentDate:   perioddate.Date(2024, time.March, 10),
		ExtendMonths:  2,
	})
	require.NoError(t, err)
	assert.True(t, created.PeriodStart.Equal(perioddate.Date(2024, time.March, 10)))
	assert.True(t, created.PeriodEnd.Equal(perioddate.Date(2024, time.May, 9)))
}

func TestCancel_PeriodoPendiente(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31))

	cancelled, err := f.uc.Cancel(context.Background(), tenant, p.ID, "baja solicitada")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "baja solicitada")

	// Era el único período: el end_date cacheado vuelve a nil.
	stored, err := f.services.GetByID(context.Background(), tenant, f.svc.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EndDate)
}

func TestCancel_RetrocedeAlPeriodoAnterior(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	p2 := f.createPeriod(t, perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31))

	_, err := f.uc.Cancel(context.Background(), tenant, p2.ID, "")
	require.NoError(t, err)

	stored, err := f.services.GetByID(context.Background(), tenant, f.svc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.June, 30)))
}

func TestCancel_PagadoNoCancelable(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	_, err := f.uc.ProcessPayment(context.Background(), tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), tenant, p.ID, "")
	assert.ErrorIs(t, err, domain.ErrPeriodNotCancellable)
}

func TestRefund_CadenaParcialHastaTotal(t *testing.T) {
	// Pagar 100, reembolsar 40 (sigue PAID, neto 60), reembolsar 60
	// (REFUNDED, neto 0), y un tercer reembolso es imposible.
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	ctx := context.Background()

	_, err := f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	amt := decimal.NewFromInt(40)
	r1, err := f.uc.Refund(ctx, tenant, p.ID, &amt, "ajuste")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, r1.Status)
	assert.True(t, r1.NetAmount().Equal(decimal.NewFromInt(60)))

	amt = decimal.NewFromInt(60)
	r2, err := f.uc.Refund(ctx, tenant, p.ID, &amt, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRefunded, r2.Status)
	assert.True(t, r2.NetAmount().IsZero())

	amt = decimal.NewFromInt(1)
	_, err = f.uc.Refund(ctx, tenant, p.ID, &amt, "")
	assert.ErrorIs(t, err, domain.ErrPeriodNotRefundable)
}

func TestRefund_Limites(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	ctx := context.Background()

	// Sin pagar no hay nada que reembolsar.
	_, err := f.uc.Refund(ctx, tenant, p.ID, nil, "")
	assert.ErrorIs(t, err, domain.ErrPeriodNotRefundable)

	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	zero := decimal.Zero
	_, err = f.uc.Refund(ctx, tenant, p.ID, &zero, "")
	assert.ErrorIs(t, err, domain.ErrNonPositiveRefund)

	tooMuch := decimal.NewFromInt(101)
	_, err = f.uc.Refund(ctx, tenant, p.ID, &tooMuch, "")
	assert.ErrorIs(t, err, domain.ErrRefundExceedsRemaining)
}

func TestRefund_NilReembolsaTodoElResto(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.June, 15))
	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	ctx := context.Background()

	_, err := f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 15), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	amt := decimal.NewFromInt(30)
	_, err = f.uc.Refund(ctx, tenant, p.ID, &amt, "")
	require.NoError(t, err)

	r, err := f.uc.Refund(ctx, tenant, p.ID, nil, "resto")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRefunded, r.Status)
	assert.True(t, r.RefundedAmount.Equal(decimal.NewFromInt(100)))
}

func TestCalculateSuggestedAmount(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.July, 15))
	ctx := context.Background()

	// Sin historial: el precio base del servicio.
	p1 := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	suggested, err := f.uc.CalculateSuggestedAmount(ctx, tenant, p1.ID)
	require.NoError(t, err)
	assert.True(t, suggested.Equal(decimal.NewFromInt(100)))

	// Con un pago de 90 por 30 días, un período de 31 días sugiere 93.
	_, err = f.uc.ProcessPayment(ctx, tenant, p1.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(90), PaymentDate: perioddate.Date(2024, time.June, 30), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	p2 := f.createPeriod(t, perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31))
	suggested, err = f.uc.CalculateSuggestedAmount(ctx, tenant, p2.ID)
	require.NoError(t, err)
	assert.True(t, suggested.Equal(decimal.NewFromInt(93)), "sugerido: %s", suggested)
}

func TestGetPaymentHistory_OrdenDescendente(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.August, 15))
	ctx := context.Background()

	for m := time.June; m <= time.August; m++ {
		p := f.createPeriod(t, perioddate.Date(2024, m, 1), perioddate.PeriodEnd(perioddate.Date(2024, m, 1), 1))
		_, err := f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
			Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, m, 5), PaymentMethod: entity.PaymentMethodCard,
		})
		require.NoError(t, err)
	}

	history, err := f.uc.GetPaymentHistory(ctx, tenant, f.svc.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].PeriodStart.Equal(perioddate.Date(2024, time.August, 1)))
	assert.True(t, history[2].PeriodStart.Equal(perioddate.Date(2024, time.June, 1)))
}

func TestAnalyzePaymentTiming(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.September, 1))
	ctx := context.Background()

	timing, err := f.uc.AnalyzePaymentTiming(ctx, tenant, f.svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "No payments", timing.Frequency)

	p := f.createPeriod(t, perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30))
	_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
		Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, time.June, 5), PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	timing, err = f.uc.AnalyzePaymentTiming(ctx, tenant, f.svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Single payment", timing.Frequency)

	// Dos pagos más con cadencia mensual.
	for _, m := range []time.Month{time.July, time.August} {
		p := f.createPeriod(t, perioddate.Date(2024, m, 1), perioddate.PeriodEnd(perioddate.Date(2024, m, 1), 1))
		_, err = f.uc.ProcessPayment(ctx, tenant, p.ID, payments.PaymentInput{
			Amount: decimal.NewFromInt(100), PaymentDate: perioddate.Date(2024, m, 5), PaymentMethod: entity.PaymentMethodCard,
		})
		require.NoError(t, err)
	}

	timing, err = f.uc.AnalyzePaymentTiming(ctx, tenant, f.svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monthly", timing.Frequency)
	require.NotNil(t, timing.AvgDaysBetweenPayments)
	assert.InDelta(t, 30.5, *timing.AvgDaysBetweenPayments, 0.6)
}

func TestCreatePaymentAndExtend_ServicioDadoDeBaja(t *testing.T) {
	f := newFixture(t, perioddate.Date(2024, time.January, 31))
	ctx := context.Background()
	require.NoError(t, f.services.SetActive(ctx, tenant, f.svc.ID, false, time.Now()))

	_, err := f.uc.CreatePaymentAndExtend(ctx, tenant, f.svc.ID, payments.ExtendInput{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: entity.PaymentMethodCard,
		PaymentDate:   perioddate.Date(2024, time.January, 31),
		ExtendMonths:  1,
	})
	assert.ErrorIs(t, err, domain.ErrServiceInactive)
}
