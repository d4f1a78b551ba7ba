// Package access construye los filtros de visibilidad según el rol y la posición
// del llamante en la jerarquía admin → distributor → customer.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

// Caller identidad autenticada que realiza la petición (extraída del token).
type Caller struct {
	UserID       string
	Role         string
	IsSuperAdmin bool
}

// Is true si el llamante tiene alguno de los roles. El super-admin cuenta como admin.
func (c Caller) Is(roles ...string) bool {
	for _, r := range roles {
		if r == c.Role || (r == entity.RoleAdmin && c.IsSuperAdmin) || (r == entity.RoleSuperAdmin && c.IsSuperAdmin) {
			return true
		}
	}
	return false
}

// hierarchyLookup resuelve el salto intermedio admin → distribuidores.
type hierarchyLookup interface {
	ListIDsByParent(ctx context.Context, parentID, role string) ([]string, error)
}

// Scoper construye expresiones de alcance por rol.
type Scoper struct {
	users hierarchyLookup
}

// NewScoper construye el scoper.
func NewScoper(users hierarchyLookup) *Scoper {
	return &Scoper{users: users}
}

// Users alcance sobre la tabla de usuarios.
//   - super-admin: todo.
//   - admin: sus distribuidores (parent_id = admin) y los clientes de esos distribuidores.
//   - distributor: sus clientes (parent_id = distributor).
//   - customer: solo él mismo.
func (s *Scoper) Users(ctx context.Context, c Caller) (query.Expr, error) {
	switch {
	case c.IsSuperAdmin:
		return query.True{}, nil
	case c.Role == entity.RoleAdmin:
		distributorIDs, err := s.users.ListIDsByParent(ctx, c.UserID, entity.RoleDistributor)
		if err != nil {
			return nil, fmt.Errorf("scope: distribuidores del admin: %w", err)
		}
		distributors := query.And{
			query.Eq{Field: "role", Value: entity.RoleDistributor},
			query.Eq{Field: "parent_id", Value: c.UserID},
		}
		if len(distributorIDs) == 0 {
			return distributors, nil
		}
		return query.AnyOf(
			distributors,
			query.And{
				query.Eq{Field: "role", Value: entity.RoleCustomer},
				query.In{Field: "parent_id", Values: distributorIDs},
			},
		), nil
	case c.Role == entity.RoleDistributor:
		return query.And{
			query.Eq{Field: "role", Value: entity.RoleCustomer},
			query.Eq{Field: "parent_id", Value: c.UserID},
		}, nil
	case c.Role == entity.RoleCustomer:
		return query.Eq{Field: "id", Value: c.UserID}, nil
	}
	return query.False{}, nil
}

// Orders alcance sobre pedidos.
func (s *Scoper) Orders(c Caller) query.Expr {
	switch {
	case c.IsSuperAdmin:
		return query.True{}
	case c.Role == entity.RoleAdmin:
		return query.Eq{Field: "admin_id", Value: c.UserID}
	case c.Role == entity.RoleDistributor:
		return query.Eq{Field: "distributor_id", Value: c.UserID}
	case c.Role == entity.RoleCustomer:
		return query.Eq{Field: "customer_id", Value: c.UserID}
	}
	return query.False{}
}

// Products alcance sobre el catálogo. Fuera del super-admin solo se ven productos
// aprobados y activos; un admin ve además los que él creó.
func (s *Scoper) Products(c Caller) query.Expr {
	if c.IsSuperAdmin {
		return query.True{}
	}
	visible := query.And{
		query.Eq{Field: "status", Value: entity.ProductStatusApproved},
		query.Eq{Field: "is_active", Value: true},
	}
	if c.Role == entity.RoleAdmin {
		return query.AnyOf(visible, query.Eq{Field: "created_by", Value: c.UserID})
	}
	return visible
}

// CanSeeOrder comprobación puntual equivalente a Orders para un pedido ya cargado.
func CanSeeOrder(c Caller, o *entity.Order) bool {
	switch {
	case c.IsSuperAdmin:
		return true
	case c.Role == entity.RoleAdmin:
		return o.AdminID == c.UserID
	case c.Role == entity.RoleDistributor:
		return o.DistributorID == c.UserID
	case c.Role == entity.RoleCustomer:
		return o.CustomerID == c.UserID
	}
	return false
}
