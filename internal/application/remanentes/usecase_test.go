package remanentes_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicios-api/internal/application/remanentes"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/testutil"
)

const tenant = "tenant-1"

type fixture struct {
	uc       *remanentes.RemanenteUseCase
	repo     *testutil.RemanenteRepo
	services *testutil.ServiceRepo
	payments *testutil.PaymentRepo
}

func newFixture() *fixture {
	services := testutil.NewServiceRepo()
	payments := testutil.NewPaymentRepo()
	repo := testutil.NewRemanenteRepo()
	tx := testutil.EngineTx{Services: services, Payments: payments}
	return &fixture{
		uc:       remanentes.NewRemanenteUseCase(tx, repo, services, payments),
		repo:     repo,
		services: services,
		payments: payments,
	}
}

func (f *fixture) seedPeriod(t *testing.T, category string) (*entity.ClientService, *entity.ServicePayment) {
	t.Helper()
	ctx := context.Background()
	svc := &entity.ClientService{
		TenantID:       tenant,
		ClientID:       "client-1",
		BusinessLineID: "line-1",
		Category:       category,
		IsActive:       true,
	}
	require.NoError(t, f.services.Create(ctx, svc))

	amt := decimal.NewFromInt(100)
	payDate := perioddate.Date(2024, time.June, 10)
	method := entity.PaymentMethodCash
	p := &entity.ServicePayment{
		TenantID:        tenant,
		ClientServiceID: svc.ID,
		PeriodStart:     perioddate.Date(2024, time.June, 1),
		PeriodEnd:       perioddate.Date(2024, time.June, 30),
		Amount:          &amt,
		PaymentDate:     &payDate,
		PaymentMethod:   &method,
		Status:          entity.StatusPaid,
	}
	require.NoError(t, f.payments.Create(ctx, p))
	return svc, p
}

func (f *fixture) seedType(t *testing.T, def *decimal.Decimal) *entity.RemanenteType {
	t.Helper()
	typ, err := f.uc.CreateType(context.Background(), tenant, remanentes.CreateTypeInput{
		Name:          "Remanente estándar",
		DefaultAmount: def,
	})
	require.NoError(t, err)
	return typ
}

func (f *fixture) enable(t *testing.T, lineID, typeID string, def *decimal.Decimal) {
	t.Helper()
	_, err := f.uc.ConfigureLine(context.Background(), tenant, remanentes.ConfigureLineInput{
		BusinessLineID:  lineID,
		RemanenteTypeID: typeID,
		IsEnabled:       true,
		DefaultAmount:   def,
	})
	require.NoError(t, err)
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestAttachAdjustment_MontoExplicito(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, dec(25))
	f.enable(t, "line-1", typ.ID, nil)

	updated, err := f.uc.AttachAdjustment(context.Background(), tenant, p.ID, typ.ID, dec(-15))
	require.NoError(t, err)
	require.NotNil(t, updated.Remanente)
	assert.True(t, updated.Remanente.Equal(decimal.NewFromInt(-15)))
}

func TestAttachAdjustment_MontoPorDefecto(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, dec(25))
	ctx := context.Background()

	// Sin override de línea: aplica el del tipo.
	f.enable(t, "line-1", typ.ID, nil)
	updated, err := f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, nil)
	require.NoError(t, err)
	assert.True(t, updated.Remanente.Equal(decimal.NewFromInt(25)))

	// Con override de línea: el override gana.
	f.enable(t, "line-1", typ.ID, dec(40))
	updated, err = f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, nil)
	require.NoError(t, err)
	assert.True(t, updated.Remanente.Equal(decimal.NewFromInt(40)))
}

func TestAttachAdjustment_SoloCategoriasBlack(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryWhite)
	typ := f.seedType(t, dec(25))
	f.enable(t, "line-1", typ.ID, nil)

	_, err := f.uc.AttachAdjustment(context.Background(), tenant, p.ID, typ.ID, dec(10))
	assert.ErrorIs(t, err, domain.ErrCategoryNotBlack)
}

func TestAttachAdjustment_SinConfiguracion(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, dec(25))
	ctx := context.Background()

	// Sin configuración alguna para la línea.
	_, err := f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, dec(10))
	assert.ErrorIs(t, err, domain.ErrAdjustmentNotConfigured)

	// Configurada pero deshabilitada.
	_, err = f.uc.ConfigureLine(ctx, tenant, remanentes.ConfigureLineInput{
		BusinessLineID:  "line-1",
		RemanenteTypeID: typ.ID,
		IsEnabled:       false,
	})
	require.NoError(t, err)
	_, err = f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, dec(10))
	assert.ErrorIs(t, err, domain.ErrAdjustmentNotConfigured)
}

func TestAttachAdjustment_AjusteCeroRechazado(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, nil) // tipo sin monto por defecto
	f.enable(t, "line-1", typ.ID, nil)
	ctx := context.Background()

	zero := decimal.Zero
	_, err := f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, &zero)
	assert.ErrorIs(t, err, domain.ErrZeroAdjustment)

	// Sin monto explícito ni defecto efectivo tampoco hay ajuste válido.
	_, err = f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, nil)
	assert.ErrorIs(t, err, domain.ErrZeroAdjustment)
}

func TestClearAdjustment(t *testing.T) {
	f := newFixture()
	_, p := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, dec(25))
	f.enable(t, "line-1", typ.ID, nil)
	ctx := context.Background()

	_, err := f.uc.AttachAdjustment(ctx, tenant, p.ID, typ.ID, nil)
	require.NoError(t, err)

	cleared, err := f.uc.ClearAdjustment(ctx, tenant, p.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Remanente)
}

func TestCreateType_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.CreateType(ctx, tenant, remanentes.CreateTypeInput{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := decimal.Zero
	_, err = f.uc.CreateType(ctx, tenant, remanentes.CreateTypeInput{Name: "X", DefaultAmount: &zero})
	assert.ErrorIs(t, err, domain.ErrZeroAdjustment)
}

func TestConfigureLine_TipoInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ConfigureLine(context.Background(), tenant, remanentes.ConfigureLineInput{
		BusinessLineID:  "line-1",
		RemanenteTypeID: "nope",
		IsEnabled:       true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttachAdjustment_PeriodoNoPagadoTambienAdmite(t *testing.T) {
	f := newFixture()
	svc, _ := f.seedPeriod(t, entity.CategoryBlack)
	typ := f.seedType(t, dec(25))
	f.enable(t, "line-1", typ.ID, nil)
	ctx := context.Background()

	// El ajuste no exige que el período esté pagado: puede registrarse
	// sobre uno pendiente y viajar con él hasta el cobro.
	pending := &entity.ServicePayment{
		TenantID:        tenant,
		ClientServiceID: svc.ID,
		PeriodStart:     perioddate.Date(2024, time.July, 1),
		PeriodEnd:       perioddate.Date(2024, time.July, 31),
		Status:          entity.StatusUnpaidActive,
	}
	require.NoError(t, f.payments.Create(ctx, pending))

	updated, err := f.uc.AttachAdjustment(ctx, tenant, pending.ID, typ.ID, dec(10))
	require.NoError(t, err)
	require.NotNil(t, updated.Remanente)
	assert.True(t, updated.Remanente.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.StatusUnpaidActive, updated.Status)
}
