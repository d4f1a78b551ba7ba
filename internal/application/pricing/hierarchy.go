package pricing

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// Hierarchy cadena efectiva de un cliente: su distribuidor (parent_id) y el admin
// de ese distribuidor (parent_id del distribuidor).
type Hierarchy struct {
	Customer    *entity.User
	Distributor *entity.User
	Admin       *entity.User
}

// ResolveHierarchy carga cliente → distribuidor → admin. Un cliente sin distribuidor,
// o un distribuidor sin admin, no puede operar pedidos.
func ResolveHierarchy(ctx context.Context, users repository.UserRepository, customerID string) (*Hierarchy, error) {
	customer, err := users.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: cliente: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrUserNotFound
	}
	if customer.Role != entity.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	if customer.ParentID == "" {
		return nil, domain.Invalid("customer", "el cliente no tiene distribuidor asignado")
	}
	distributor, err := users.GetByID(ctx, customer.ParentID)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: distribuidor: %w", err)
	}
	if distributor == nil || distributor.Role != entity.RoleDistributor {
		return nil, domain.Invalid("customer", "el distribuidor del cliente no existe")
	}
	if distributor.ParentID == "" {
		return nil, domain.Invalid("customer", "el distribuidor no tiene admin asignado")
	}
	admin, err := users.GetByID(ctx, distributor.ParentID)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: admin: %w", err)
	}
	if admin == nil || !admin.IsAdminRole() {
		return nil, domain.Invalid("customer", "el admin del distribuidor no existe")
	}
	return &Hierarchy{Customer: customer, Distributor: distributor, Admin: admin}, nil
}
