package entity

import "time"

// Roles válidos para User. La jerarquía es admin → distributor → customer;
// el super-admin es un admin identificado por el email configurado.
const (
	RoleSuperAdmin  = "super-admin"
	RoleAdmin       = "admin"
	RoleDistributor = "distributor"
	RoleCustomer    = "customer"
)

// User representa un usuario del sistema dentro de la jerarquía.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	ParentID     string // creador inmediato: admin→distributor, distributor→customer
	CreatedBy    string
	Phone        string
	Address      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdminRole true para admin y super-admin.
func (u *User) IsAdminRole() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleDistributor, RoleCustomer:
		return true
	}
	return false
}
