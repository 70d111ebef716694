package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/servicios-api/internal/domain/entity"
	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
)

func periodo(start, end time.Time, status string) *entity.ServicePayment {
	return &entity.ServicePayment{
		ID:          "p1",
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      status,
	}
}

func TestComputeStatus_DerivacionNoTerminal(t *testing.T) {
	start := perioddate.Date(2025, time.March, 1)
	end := perioddate.Date(2025, time.March, 31)

	cases := []struct {
		name string
		hoy  time.Time
		want string
	}{
		{"antes del inicio", perioddate.Date(2025, time.February, 15), entity.StatusAwaitingStart},
		{"primer día", start, entity.StatusUnpaidActive},
		{"dentro del período", perioddate.Date(2025, time.March, 15), entity.StatusUnpaidActive},
		{"último día", end, entity.StatusUnpaidActive},
		{"después del fin", perioddate.Date(2025, time.April, 1), entity.StatusOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := periodo(start, end, entity.StatusAwaitingStart)
			assert.Equal(t, tc.want, p.ComputeStatus(tc.hoy))
		})
	}
}

func TestComputeStatus_TerminalesPegajosos(t *testing.T) {
	start := perioddate.Date(2025, time.March, 1)
	end := perioddate.Date(2025, time.March, 31)
	hoy := perioddate.Date(2025, time.June, 1) // muy posterior al fin

	for _, status := range []string{entity.StatusPaid, entity.StatusCancelled, entity.StatusRefunded} {
		p := periodo(start, end, status)
		assert.Equal(t, status, p.ComputeStatus(hoy), "el estado %s no debe re-derivarse", status)
	}
}

func TestCanBePaid_IncluyeVencidos(t *testing.T) {
	// Un período OVERDUE sigue siendo pagable: el pago tardío se acepta
	// y queda marcado como fuera de plazo.
	payable := []string{entity.StatusAwaitingStart, entity.StatusUnpaidActive, entity.StatusOverdue}
	for _, status := range payable {
		p := periodo(perioddate.Date(2025, time.March, 1), perioddate.Date(2025, time.March, 31), status)
		assert.True(t, p.CanBePaid(), "%s debe ser pagable", status)
	}
	notPayable := []string{entity.StatusPaid, entity.StatusCancelled, entity.StatusRefunded}
	for _, status := range notPayable {
		p := periodo(perioddate.Date(2025, time.March, 1), perioddate.Date(2025, time.March, 31), status)
		assert.False(t, p.CanBePaid(), "%s no debe ser pagable", status)
	}
}

func TestNetAmount(t *testing.T) {
	p := periodo(perioddate.Date(2025, time.January, 1), perioddate.Date(2025, time.January, 31), entity.StatusPaid)

	// Sin pago: neto nil
	assert.Nil(t, p.NetAmount())

	amount := decimal.NewFromInt(100)
	p.Amount = &amount
	p.RefundedAmount = decimal.NewFromInt(40)

	net := p.NetAmount()
	assert.NotNil(t, net)
	assert.True(t, net.Equal(decimal.NewFromInt(60)), "neto esperado 60, obtenido %s", net)
}

func TestOverlaps(t *testing.T) {
	p := periodo(perioddate.Date(2025, time.March, 1), perioddate.Date(2025, time.March, 31), entity.StatusPaid)

	assert.True(t, p.Overlaps(perioddate.Date(2025, time.March, 31), perioddate.Date(2025, time.April, 30)), "compartir un día es solape")
	assert.True(t, p.Overlaps(perioddate.Date(2025, time.February, 1), perioddate.Date(2025, time.March, 1)))
	assert.True(t, p.Overlaps(perioddate.Date(2025, time.February, 1), perioddate.Date(2025, time.April, 30)), "contención total")
	assert.False(t, p.Overlaps(perioddate.Date(2025, time.April, 1), perioddate.Date(2025, time.April, 30)))
	assert.False(t, p.Overlaps(perioddate.Date(2025, time.February, 1), perioddate.Date(2025, time.February, 28)))
}

func TestDurationDays_Inclusivo(t *testing.T) {
	p := periodo(perioddate.Date(2025, time.January, 1), perioddate.Date(2025, time.January, 31), entity.StatusPaid)
	assert.Equal(t, 31, p.DurationDays())
}
