package http

import "time"

// dateLayout formato de fecha en cuerpos y query params.
const dateLayout = "2006-01-02"

// parseDate interpreta una fecha YYYY-MM-DD; cadena vacía devuelve nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
