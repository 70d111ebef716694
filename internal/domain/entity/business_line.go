package entity

import (
	"strings"
	"time"
	"unicode"
)

// MaxBusinessLineLevel profundidad máxima del árbol de líneas de negocio.
const MaxBusinessLineLevel = 3

// BusinessLine nodo del catálogo jerárquico (máximo 3 niveles).
// Level se deriva del padre (1 si es raíz) y (Name, ParentID) y
// (Slug, ParentID) son únicos. IsActive es derivado: se recalcula de
// abajo hacia arriba según existan servicios activos en el subárbol.
type BusinessLine struct {
	ID        string
	TenantID  string
	Name      string
	Slug      string
	ParentID  *string
	Level     int
	IsActive  bool
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot informa si el nodo no tiene padre.
func (b *BusinessLine) IsRoot() bool {
	return b.ParentID == nil
}

// Slugify normaliza un nombre para usarlo como segmento de ruta:
// minúsculas, espacios a guiones, solo [a-z0-9-].
func Slugify(name string) string {
	var sb strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			sb.WriteRune(r)
			prevDash = false
		case r == 'á' || r == 'é' || r == 'í' || r == 'ó' || r == 'ú' || r == 'ñ':
			// Transliteración mínima para nombres en español
			sb.WriteRune(map[rune]rune{'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ñ': 'n'}[r])
			prevDash = false
		default:
			if !prevDash && sb.Len() > 0 {
				sb.WriteByte('-')
				prevDash = true
			}
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "linea-de-negocio"
	}
	return out
}
