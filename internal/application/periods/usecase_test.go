package periods_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicios-api/internal/application/periods"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/testutil"
)

const tenant = "tenant-1"

func newEngine(today time.Time) (*periods.PeriodUseCase, *testutil.ServiceRepo, *testutil.PaymentRepo) {
	services := testutil.NewServiceRepo()
	payments := testutil.NewPaymentRepo()
	tx := testutil.EngineTx{Services: services, Payments: payments}
	uc := periods.NewPeriodUseCase(tx, payments, perioddate.FixedClock{Date: today})
	return uc, services, payments
}

func seedService(t *testing.T, services *testutil.ServiceRepo) *entity.ClientService {
	t.Helper()
	svc := &entity.ClientService{
		TenantID:       tenant,
		ClientID:       "client-1",
		BusinessLineID: "line-1",
		Category:       entity.CategoryWhite,
		AdminStatus:    entity.AdminStatusEnabled,
		IsActive:       true,
	}
	require.NoError(t, services.Create(context.Background(), svc))
	return svc
}

func TestCreatePeriod_EstadoDerivadoYEndDate(t *testing.T) {
	today := perioddate.Date(2024, time.June, 15)
	uc, services, _ := newEngine(today)
	svc := seedService(t, services)
	ctx := context.Background()

	// Período futuro: AWAITING_START.
	p, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31), "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAwaitingStart, p.Status)

	// El end_date cacheado del servicio debe quedar sincronizado.
	stored, err := services.GetByID(ctx, tenant, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.July, 31)))

	// Período en curso: UNPAID_ACTIVE.
	p2, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnpaidActive, p2.Status)

	// Período ya terminado: OVERDUE; no mueve el end_date por encima del mayor activo.
	p3, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.April, 1), perioddate.Date(2024, time.April, 30), "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, p3.Status)

	stored, err = services.GetByID(ctx, tenant, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.July, 31)))
}

func TestCreatePeriod_RangoInvalido(t *testing.T) {
	uc, services, payments := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.July, 31), perioddate.Date(2024, time.July, 1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	// start == end también es inválido (rango estricto).
	_, err = uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	assert.Empty(t, payments.Items)
}

func TestCreatePeriod_SolapeRechazadoSinInsertar(t *testing.T) {
	uc, services, payments := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)

	casos := []struct {
		nombre     string
		start, end time.Time
	}{
		{"contenido", perioddate.Date(2024, time.June, 10), perioddate.Date(2024, time.June, 20)},
		{"cruza el inicio", perioddate.Date(2024, time.May, 20), perioddate.Date(2024, time.June, 5)},
		{"cruza el fin", perioddate.Date(2024, time.June, 25), perioddate.Date(2024, time.July, 10)},
		{"comparte un día", perioddate.Date(2024, time.June, 30), perioddate.Date(2024, time.July, 31)},
		{"envuelve", perioddate.Date(2024, time.May, 1), perioddate.Date(2024, time.August, 1)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.CreatePeriod(ctx, tenant, svc.ID, c.start, c.end, "")
			assert.ErrorIs(t, err, domain.ErrOverlappingPeriod)
		})
	}
	// Solo el período original quedó persistido.
	assert.Len(t, payments.Items, 1)
}

func TestCreatePeriod_PeriodoCanceladoNoBloquea(t *testing.T) {
	uc, services, payments := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	p, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)

	p.Status = entity.StatusCancelled
	require.NoError(t, payments.Update(ctx, p))

	// El hueco del período cancelado puede reutilizarse.
	_, err = uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	assert.NoError(t, err)
}

func TestExtendService_PorMeses(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.January, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.January, 1), perioddate.Date(2024, time.January, 31), "")
	require.NoError(t, err)

	// Siguiente período: empieza el día después del fin actual, un mes con
	// día ajustado (01-feb..29-feb, bisiesto).
	p, err := uc.ExtendService(ctx, tenant, svc.ID, 1, nil, "")
	require.NoError(t, err)
	assert.True(t, p.PeriodStart.Equal(perioddate.Date(2024, time.February, 1)))
	assert.True(t, p.PeriodEnd.Equal(perioddate.Date(2024, time.February, 29)))

	stored, err := services.GetByID(ctx, tenant, svc.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.February, 29)))
}

func TestExtendService_PrimerPeriodoDesdeStartDate(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.March, 10))
	svc := seedService(t, services)
	start := perioddate.Date(2024, time.March, 5)
	svc.StartDate = &start
	require.NoError(t, services.Update(context.Background(), svc))

	p, err := uc.ExtendService(context.Background(), tenant, svc.ID, 1, nil, "")
	require.NoError(t, err)
	assert.True(t, p.PeriodStart.Equal(start))
	assert.True(t, p.PeriodEnd.Equal(perioddate.Date(2024, time.April, 4)))
}

func TestExtendService_FechaObjetivoNoCreciente(t *testing.T) {
	uc, services, payments := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)

	// Igual al fin actual: rechazado sin mutar nada.
	target := perioddate.Date(2024, time.June, 30)
	_, err = uc.ExtendService(ctx, tenant, svc.ID, 0, &target, "")
	assert.ErrorIs(t, err, domain.ErrNonIncreasingExtension)

	// Anterior al fin actual: también.
	target = perioddate.Date(2024, time.June, 10)
	_, err = uc.ExtendService(ctx, tenant, svc.ID, 0, &target, "")
	assert.ErrorIs(t, err, domain.ErrNonIncreasingExtension)

	assert.Len(t, payments.Items, 1)
	stored, err := services.GetByID(ctx, tenant, svc.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndDate.Equal(perioddate.Date(2024, time.June, 30)))
}

func TestExtendService_FechaObjetivoValida(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)

	target := perioddate.Date(2024, time.September, 15)
	p, err := uc.ExtendService(ctx, tenant, svc.ID, 0, &target, "")
	require.NoError(t, err)
	assert.True(t, p.PeriodStart.Equal(perioddate.Date(2024, time.July, 1)))
	assert.True(t, p.PeriodEnd.Equal(target))
}

func TestExtendService_SinMesesNiFecha(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)

	_, err := uc.ExtendService(context.Background(), tenant, svc.ID, 0, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetPendingPeriods(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.April, 1), perioddate.Date(2024, time.April, 30), "") // OVERDUE
	require.NoError(t, err)
	_, err = uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "") // UNPAID_ACTIVE
	require.NoError(t, err)
	_, err = uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31), "") // AWAITING_START
	require.NoError(t, err)

	pending, err := uc.GetPendingPeriods(ctx, tenant, svc.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Orden por inicio de período; el OVERDUE no cuenta como pendiente.
	assert.Equal(t, entity.StatusUnpaidActive, pending[0].Status)
	assert.Equal(t, entity.StatusAwaitingStart, pending[1].Status)
}

func TestResyncEndDate_RederivaEstados(t *testing.T) {
	// El período se creó cuando aún no había empezado; al resincronizar con
	// un "hoy" posterior debe pasar a OVERDUE y el end_date quedar en nil.
	ctx := context.Background()
	services := testutil.NewServiceRepo()
	payments := testutil.NewPaymentRepo()
	tx := testutil.EngineTx{Services: services, Payments: payments}

	early := periods.NewPeriodUseCase(tx, payments, perioddate.FixedClock{Date: perioddate.Date(2024, time.May, 1)})
	svc := seedService(t, services)
	p, err := early.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	require.NoError(t, err)
	require.Equal(t, entity.StatusAwaitingStart, p.Status)

	late := periods.NewPeriodUseCase(tx, payments, perioddate.FixedClock{Date: perioddate.Date(2024, time.August, 1)})
	require.NoError(t, late.ResyncEndDate(ctx, tenant, svc.ID))

	stored, err := payments.GetByID(ctx, tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOverdue, stored.Status)

	svcStored, err := services.GetByID(ctx, tenant, svc.ID)
	require.NoError(t, err)
	assert.Nil(t, svcStored.EndDate)
}

func TestCreatePeriod_ServicioInexistente(t *testing.T) {
	uc, _, _ := newEngine(perioddate.Date(2024, time.June, 15))
	_, err := uc.CreatePeriod(context.Background(), tenant, "nope",
		perioddate.Date(2024, time.June, 1), perioddate.Date(2024, time.June, 30), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePeriod_ServicioDadoDeBaja(t *testing.T) {
	uc, services, _ := newEngine(perioddate.Date(2024, time.June, 15))
	svc := seedService(t, services)
	ctx := context.Background()
	require.NoError(t, services.SetActive(ctx, tenant, svc.ID, false, time.Now()))

	_, err := uc.CreatePeriod(ctx, tenant, svc.ID,
		perioddate.Date(2024, time.July, 1), perioddate.Date(2024, time.July, 31), "")
	assert.ErrorIs(t, err, domain.ErrServiceInactive)

	_, err = uc.ExtendService(ctx, tenant, svc.ID, 1, nil, "")
	assert.ErrorIs(t, err, domain.ErrServiceInactive)
}
