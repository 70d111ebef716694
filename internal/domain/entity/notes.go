package entity

import "strings"

// AppendNote añade una línea a las notas existentes sin duplicar saltos.
func AppendNote(existing, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return existing
	}
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
