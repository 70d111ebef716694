package perioddate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/servicios-api/internal/domain/perioddate"
)

func TestAddMonths_AjusteFinDeMes(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"enero 31 + 1 mes en bisiesto", perioddate.Date(2024, time.January, 31), 1, perioddate.Date(2024, time.February, 29)},
		{"enero 31 + 1 mes en no bisiesto", perioddate.Date(2023, time.January, 31), 1, perioddate.Date(2023, time.February, 28)},
		{"marzo 31 + 1 mes", perioddate.Date(2025, time.March, 31), 1, perioddate.Date(2025, time.April, 30)},
		{"día sin ajuste", perioddate.Date(2025, time.January, 15), 1, perioddate.Date(2025, time.February, 15)},
		{"cruce de año", perioddate.Date(2024, time.November, 30), 3, perioddate.Date(2025, time.February, 28)},
		{"doce meses exactos", perioddate.Date(2024, time.February, 29), 12, perioddate.Date(2025, time.February, 28)},
		{"meses negativos", perioddate.Date(2025, time.March, 31), -1, perioddate.Date(2025, time.February, 28)},
		{"cero meses", perioddate.Date(2025, time.June, 10), 0, perioddate.Date(2025, time.June, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := perioddate.AddMonths(tc.start, tc.months)
			assert.True(t, got.Equal(tc.want), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestPeriodEnd_UnDiaMenosQueElMesSiguiente(t *testing.T) {
	// 01-ene + 1 mes => fin 31-ene: los períodos consecutivos no comparten día.
	end := perioddate.PeriodEnd(perioddate.Date(2025, time.January, 1), 1)
	assert.True(t, end.Equal(perioddate.Date(2025, time.January, 31)))

	end = perioddate.PeriodEnd(perioddate.Date(2025, time.January, 31), 1)
	assert.True(t, end.Equal(perioddate.Date(2025, time.February, 27)))
}

func TestDaysBetween(t *testing.T) {
	a := perioddate.Date(2025, time.January, 1)
	b := perioddate.Date(2025, time.January, 31)
	assert.Equal(t, 30, perioddate.DaysBetween(a, b))
	assert.Equal(t, -30, perioddate.DaysBetween(b, a))
	assert.Equal(t, 0, perioddate.DaysBetween(a, a))
	assert.Equal(t, 31, perioddate.DurationDays(a, b))
}

func TestComparacionesConRelojInyectado(t *testing.T) {
	clock := perioddate.FixedClock{Date: perioddate.Date(2025, time.June, 15)}

	assert.True(t, perioddate.IsPast(clock, perioddate.Date(2025, time.June, 14)))
	assert.False(t, perioddate.IsPast(clock, perioddate.Date(2025, time.June, 15)))
	assert.True(t, perioddate.IsToday(clock, perioddate.Date(2025, time.June, 15)))
	assert.True(t, perioddate.IsFuture(clock, perioddate.Date(2025, time.June, 16)))
	assert.False(t, perioddate.IsFuture(clock, perioddate.Date(2025, time.June, 15)))
}

func TestNormalize_DescartaHoraYZona(t *testing.T) {
	madrid, _ := time.LoadLocation("Europe/Madrid")
	d := time.Date(2025, time.March, 3, 23, 45, 0, 0, madrid)
	got := perioddate.Normalize(d)
	assert.True(t, got.Equal(perioddate.Date(2025, time.March, 3)))
}
