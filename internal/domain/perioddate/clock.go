package perioddate

import "time"

// Clock abstrae "hoy" para que los cálculos de estado sean testeables.
// Todas las fechas del motor son fechas de calendario normalizadas a
// medianoche UTC; Today debe devolver lo mismo.
type Clock interface {
	Today() time.Time
}

// SystemClock implementación de producción sobre time.Now.
type SystemClock struct{}

// Today devuelve la fecha actual normalizada (medianoche UTC).
func (SystemClock) Today() time.Time {
	return Normalize(time.Now())
}

// FixedClock devuelve siempre la misma fecha; para tests.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time {
	return Normalize(c.Date)
}
