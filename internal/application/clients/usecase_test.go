package clients_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicios-api/internal/application/clients"
	"github.com/jhoicas/servicios-api/internal/domain"
	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
	"github.com/jhoicas/servicios-api/internal/testutil"
)

const tenant = "tenant-1"

type fixture struct {
	uc        *clients.ClientUseCase
	clients   *testutil.ClientRepo
	services  *testutil.ServiceRepo
	lines     *testutil.LineRepo
	refresher *testutil.NoopRefresher
}

func newFixture(t *testing.T) (*fixture, *entity.BusinessLine) {
	t.Helper()
	f := &fixture{
		clients:   testutil.NewClientRepo(),
		services:  testutil.NewServiceRepo(),
		lines:     testutil.NewLineRepo(),
		refresher: &testutil.NoopRefresher{},
	}
	f.uc = clients.NewClientUseCase(f.clients, f.services, f.lines, f.refresher,
		perioddate.FixedClock{Date: perioddate.Date(2024, time.June, 15)})

	line := &entity.BusinessLine{TenantID: tenant, Name: "Peluquería", Slug: "peluqueria", Level: 1}
	require.NoError(t, f.lines.Create(context.Background(), line))
	return f, line
}

func TestCreateClient_DNIUnicoPorTenant(t *testing.T) {
	f, _ := newFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Ana Pérez", DNI: "11111111A"})
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	_, err = f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Otra Ana", DNI: "11111111A"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El mismo DNI en otro tenant no choca.
	_, err = f.uc.CreateClient(ctx, "tenant-2", clients.CreateClientInput{FullName: "Ana Bis", DNI: "11111111A"})
	assert.NoError(t, err)
}

func TestCreateClient_CamposObligatorios(t *testing.T) {
	f, _ := newFixture(t)
	_, err := f.uc.CreateClient(context.Background(), tenant, clients.CreateClientInput{FullName: "", DNI: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreateClient(context.Background(), tenant, clients.CreateClientInput{FullName: "X", DNI: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContractService(t *testing.T) {
	f, line := newFixture(t)
	ctx := context.Background()
	c, err := f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Ana Pérez", DNI: "11111111A"})
	require.NoError(t, err)

	svc, err := f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID:       c.ID,
		BusinessLineID: line.ID,
		Category:       entity.CategoryBlack,
		Price:          decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.True(t, svc.IsActive)
	assert.Equal(t, entity.AdminStatusEnabled, svc.AdminStatus)
	assert.Nil(t, svc.EndDate)
	// Sin fecha explícita arranca hoy.
	require.NotNil(t, svc.StartDate)
	assert.True(t, svc.StartDate.Equal(perioddate.Date(2024, time.June, 15)))
	// La contratación dispara el recálculo de la línea.
	assert.Equal(t, []string{line.ID}, f.refresher.Refreshed)
}

func TestContractService_Validaciones(t *testing.T) {
	f, line := newFixture(t)
	ctx := context.Background()
	c, err := f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Ana Pérez", DNI: "11111111A"})
	require.NoError(t, err)

	_, err = f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID: c.ID, BusinessLineID: line.ID, Category: "GRIS", Price: decimal.NewFromInt(80),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID: c.ID, BusinessLineID: line.ID, Category: entity.CategoryWhite, Price: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID: c.ID, BusinessLineID: "nope", Category: entity.CategoryWhite, Price: decimal.NewFromInt(80),
	})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	// Un cliente inactivo no puede contratar.
	require.NoError(t, f.clients.SetActive(ctx, tenant, c.ID, false, time.Now()))
	_, err = f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID: c.ID, BusinessLineID: line.ID, Category: entity.CategoryWhite, Price: decimal.NewFromInt(80),
	})
	assert.ErrorIs(t, err, domain.ErrClientInactive)
}

func TestUpdateYSoftDelete(t *testing.T) {
	f, _ := newFixture(t)
	ctx := context.Background()
	c, err := f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Ana Pérez", DNI: "11111111A"})
	require.NoError(t, err)

	updated, err := f.uc.UpdateClient(ctx, tenant, c.ID, clients.UpdateClientInput{
		FullName: "Ana P. García", Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana P. García", updated.FullName)
	assert.Equal(t, "ana@example.com", updated.Email)

	require.NoError(t, f.uc.DeleteClient(ctx, tenant, c.ID))
	_, err = f.uc.GetClient(ctx, tenant, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetServiceAdminStatus(t *testing.T) {
	f, line := newFixture(t)
	ctx := context.Background()
	c, err := f.uc.CreateClient(ctx, tenant, clients.CreateClientInput{FullName: "Ana Pérez", DNI: "11111111A"})
	require.NoError(t, err)
	svc, err := f.uc.ContractService(ctx, tenant, clients.ContractServiceInput{
		ClientID: c.ID, BusinessLineID: line.ID, Category: entity.CategoryWhite, Price: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	updated, err := f.uc.SetServiceAdminStatus(ctx, tenant, svc.ID, entity.AdminStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.AdminStatusSuspended, updated.AdminStatus)

	_, err = f.uc.SetServiceAdminStatus(ctx, tenant, svc.ID, "PAUSADO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
