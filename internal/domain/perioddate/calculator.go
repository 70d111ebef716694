package perioddate

import "time"

// Aritmética pura de fechas para los límites de períodos de facturación.
// No hay estado ni efectos; todas las funciones son deterministas.

// Normalize descarta la hora y fija la fecha a medianoche UTC.
// El motor trabaja siempre con fechas normalizadas para que las
// comparaciones entre límites de período sean exactas.
func Normalize(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Date construye una fecha normalizada.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonths suma n meses de calendario ajustando el día al último día
// válido del mes destino (31-ene + 1 mes = 28-feb o 29-feb en bisiesto).
// No usa time.AddDate, que desborda al mes siguiente (31-ene + 1 mes = 3-mar).
func AddMonths(d time.Time, n int) time.Time {
	d = Normalize(d)
	year, month, day := d.Year(), int(d.Month()), d.Day()

	month += n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	if last := lastDayOfMonth(year, time.Month(month)); day > last {
		day = last
	}
	return Date(year, time.Month(month), day)
}

// PeriodEnd calcula el fin de un período de `months` meses que empieza en
// start: AddMonths(start, months) menos un día, de modo que los períodos
// consecutivos no compartan día (01-ene..31-ene, 01-feb..28-feb, ...).
func PeriodEnd(start time.Time, months int) time.Time {
	return AddMonths(start, months).AddDate(0, 0, -1)
}

// DaysBetween devuelve los días de a hasta b (negativo si b es anterior).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// DurationDays devuelve la duración inclusiva de [start, end] en días.
func DurationDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// IsPast informa si d es anterior a hoy según el reloj inyectado.
func IsPast(clock Clock, d time.Time) bool {
	return Normalize(d).Before(clock.Today())
}

// IsToday informa si d es hoy según el reloj inyectado.
func IsToday(clock Clock, d time.Time) bool {
	return Normalize(d).Equal(clock.Today())
}

// IsFuture informa si d es posterior a hoy según el reloj inyectado.
func IsFuture(clock Clock, d time.Time) bool {
	return Normalize(d).After(clock.Today())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Día 0 del mes siguiente = último día de este mes.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
