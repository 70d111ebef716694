package entity

import "time"

// Client es el titular de los servicios contratados.
// DNI es único por tenant. El borrado es lógico (DeletedAt).
type Client struct {
	ID        string
	TenantID  string
	FullName  string
	DNI       string
	Email     string
	Phone     string
	Notes     string
	IsActive  bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
