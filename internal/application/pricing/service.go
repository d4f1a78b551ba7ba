// Package pricing casos de uso de precios personalizados y resolución de precio efectivo.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	dompricing "github.com/jhoicas/vendofy-api/internal/domain/pricing"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// Service casos de uso de precios.
type Service struct {
	users    repository.UserRepository
	products repository.ProductRepository
	pricing  repository.PricingRepository
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(users repository.UserRepository, products repository.ProductRepository, pricing repository.PricingRepository) *Service {
	return &Service{users: users, products: products, pricing: pricing, now: time.Now}
}

// Resolve precio efectivo de product para la jerarquía h. Carga los dos overrides
// y delega en la función pura de dominio.
func (s *Service) Resolve(ctx context.Context, h *Hierarchy, product *entity.Product) (decimal.Decimal, dompricing.Source, error) {
	if product == nil {
		return decimal.Zero, "", domain.ErrNotFound
	}
	in := dompricing.Input{Product: product}
	if product.Orderable() {
		cp, err := s.pricing.GetCustomerPricing(ctx, h.Distributor.ID, h.Customer.ID, product.ID)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("pricing: customer override: %w", err)
		}
		in.CustomerPricing = cp
		if cp == nil {
			ap, err := s.pricing.GetAdminPricing(ctx, h.Admin.ID, h.Distributor.ID, product.ID)
			if err != nil {
				return decimal.Zero, "", fmt.Errorf("pricing: admin override: %w", err)
			}
			in.AdminPricing = ap
		}
	}
	return dompricing.Resolve(in)
}

// ResolveForCustomer precio efectivo consultado vía API. Un cliente solo puede
// consultar su propio precio; un distribuidor, el de sus clientes; un admin, el de
// los clientes de sus distribuidores.
func (s *Service) ResolveForCustomer(ctx context.Context, caller access.Caller, customerID, productID string) (*dto.ResolvedPriceResponse, error) {
	if customerID == "" {
		if caller.Role != entity.RoleCustomer {
			return nil, domain.Invalid("customer_id", "es requerido")
		}
		customerID = caller.UserID
	}
	h, err := ResolveHierarchy(ctx, s.users, customerID)
	if err != nil {
		return nil, err
	}
	if !canPriceFor(caller, h) {
		return nil, domain.ErrForbidden
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	price, source, err := s.Resolve(ctx, h, product)
	if err != nil {
		return nil, err
	}
	return &dto.ResolvedPriceResponse{
		ProductID:  product.ID,
		CustomerID: h.Customer.ID,
		Price:      price,
		BasePrice:  product.Price,
		Source:     string(source),
	}, nil
}

func canPriceFor(c access.Caller, h *Hierarchy) bool {
	switch {
	case c.IsSuperAdmin:
		return true
	case c.Role == entity.RoleAdmin:
		return h.Admin.ID == c.UserID
	case c.Role == entity.RoleDistributor:
		return h.Distributor.ID == c.UserID
	case c.Role == entity.RoleCustomer:
		return h.Customer.ID == c.UserID
	}
	return false
}

// SetAdminPricing el admin fija (o desactiva) el precio de un producto para uno de sus distribuidores.
func (s *Service) SetAdminPricing(ctx context.Context, caller access.Caller, in dto.SetAdminPricingRequest) (*dto.AdminPricingResponse, error) {
	if err := validPrice(in.CustomPrice); err != nil {
		return nil, err
	}
	distributor, err := s.users.GetByID(ctx, in.DistributorID)
	if err != nil {
		return nil, err
	}
	if distributor == nil || distributor.Role != entity.RoleDistributor {
		return nil, domain.ErrNotFound
	}
	if !caller.IsSuperAdmin && distributor.ParentID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Status != entity.ProductStatusApproved {
		return nil, domain.Invalid("product_id", "el producto %q no está aprobado", product.Name)
	}
	// El precio pertenece al admin dueño del distribuidor, también cuando lo fija el super-admin.
	adminID := distributor.ParentID
	now := s.now()
	p := &entity.AdminProductPricing{
		ID:            uuid.New().String(),
		AdminID:       adminID,
		DistributorID: distributor.ID,
		ProductID:     product.ID,
		CustomPrice:   in.CustomPrice,
		IsActive:      in.IsActive == nil || *in.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.pricing.UpsertAdminPricing(ctx, p); err != nil {
		return nil, err
	}
	return toAdminPricingResponse(p, distributor, product), nil
}

// ListAdminPricing precios del admin llamante para un distribuidor (o todos si distributorID vacío).
// El super-admin sin distribuidor ve los de todos los admins.
func (s *Service) ListAdminPricing(ctx context.Context, caller access.Caller, distributorID string) ([]dto.AdminPricingResponse, error) {
	adminID := caller.UserID
	if caller.IsSuperAdmin {
		adminID = ""
	}
	if distributorID != "" {
		distributor, err := s.users.GetByID(ctx, distributorID)
		if err != nil {
			return nil, err
		}
		if distributor == nil || distributor.Role != entity.RoleDistributor {
			return nil, domain.ErrNotFound
		}
		if distributor.ParentID != caller.UserID && !caller.IsSuperAdmin {
			return nil, domain.ErrForbidden
		}
		adminID = distributor.ParentID
	}
	list, err := s.pricing.ListAdminPricing(ctx, adminID, distributorID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(list))
	productIDs := make([]string, 0, len(list))
	for _, p := range list {
		userIDs = append(userIDs, p.DistributorID)
		productIDs = append(productIDs, p.ProductID)
	}
	users, products, err := s.populate(ctx, userIDs, productIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminPricingResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toAdminPricingResponse(p, users[p.DistributorID], products[p.ProductID]))
	}
	return out, nil
}

// SetCustomerPricing el distribuidor fija el precio de un producto para uno de sus clientes.
func (s *Service) SetCustomerPricing(ctx context.Context, caller access.Caller, in dto.SetCustomerPricingRequest) (*dto.CustomerPricingResponse, error) {
	if err := validPrice(in.CustomPrice); err != nil {
		return nil, err
	}
	customer, err := s.ownedCustomer(ctx, caller, in.CustomerID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Status != entity.ProductStatusApproved {
		return nil, domain.Invalid("product_id", "el producto %q no está aprobado", product.Name)
	}
	now := s.now()
	p := &entity.CustomerPricing{
		ID:            uuid.New().String(),
		DistributorID: customer.ParentID,
		CustomerID:    customer.ID,
		ProductID:     product.ID,
		CustomPrice:   in.CustomPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.pricing.UpsertCustomerPricing(ctx, p); err != nil {
		return nil, err
	}
	return toCustomerPricingResponse(p, customer, product), nil
}

// ListCustomerPricing overrides de un cliente del distribuidor llamante.
func (s *Service) ListCustomerPricing(ctx context.Context, caller access.Caller, customerID string) ([]dto.CustomerPricingResponse, error) {
	customer, err := s.ownedCustomer(ctx, caller, customerID)
	if err != nil {
		return nil, err
	}
	list, err := s.pricing.ListCustomerPricing(ctx, customer.ParentID, customer.ID)
	if err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(list))
	for _, p := range list {
		productIDs = append(productIDs, p.ProductID)
	}
	_, products, err := s.populate(ctx, nil, productIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerPricingResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toCustomerPricingResponse(p, customer, products[p.ProductID]))
	}
	return out, nil
}

// DeleteCustomerPricing elimina el override; el cliente vuelve al precio del admin o al base.
func (s *Service) DeleteCustomerPricing(ctx context.Context, caller access.Caller, customerID, productID string) error {
	customer, err := s.ownedCustomer(ctx, caller, customerID)
	if err != nil {
		return err
	}
	return s.pricing.DeleteCustomerPricing(ctx, customer.ParentID, customer.ID, productID)
}

// ownedCustomer carga un cliente y comprueba que sea hijo del distribuidor llamante.
func (s *Service) ownedCustomer(ctx context.Context, caller access.Caller, customerID string) (*entity.User, error) {
	if customerID == "" {
		return nil, domain.Invalid("customer_id", "es requerido")
	}
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Role != entity.RoleCustomer {
		return nil, domain.ErrNotFound
	}
	if !caller.IsSuperAdmin && customer.ParentID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func (s *Service) populate(ctx context.Context, userIDs, productIDs []string) (map[string]*entity.User, map[string]*entity.Product, error) {
	users := map[string]*entity.User{}
	products := map[string]*entity.Product{}
	var err error
	if len(userIDs) > 0 {
		if users, err = s.users.GetByIDs(ctx, userIDs); err != nil {
			return nil, nil, err
		}
	}
	if len(productIDs) > 0 {
		if products, err = s.products.GetByIDs(ctx, productIDs); err != nil {
			return nil, nil, err
		}
	}
	return users, products, nil
}

func validPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Invalid("custom_price", "no puede ser negativo")
	}
	if p.Exponent() < -2 {
		return domain.Invalid("custom_price", "máximo dos decimales")
	}
	return nil
}

func toAdminPricingResponse(p *entity.AdminProductPricing, distributor *entity.User, product *entity.Product) *dto.AdminPricingResponse {
	out := &dto.AdminPricingResponse{
		ID:          p.ID,
		AdminID:     p.AdminID,
		Distributor: dto.UserRef{ID: p.DistributorID},
		Product:     dto.ProductRef{ID: p.ProductID},
		CustomPrice: p.CustomPrice,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
	if distributor != nil {
		out.Distributor = dto.UserRef{ID: distributor.ID, Name: distributor.Name, Email: distributor.Email}
	}
	if product != nil {
		out.Product = dto.ProductRef{ID: product.ID, Name: product.Name, SKU: product.SKU, Unit: product.Unit}
		out.BasePrice = product.Price
	}
	return out
}

func toCustomerPricingResponse(p *entity.CustomerPricing, customer *entity.User, product *entity.Product) *dto.CustomerPricingResponse {
	out := &dto.CustomerPricingResponse{
		ID:            p.ID,
		DistributorID: p.DistributorID,
		Customer:      dto.UserRef{ID: p.CustomerID},
		Product:       dto.ProductRef{ID: p.ProductID},
		CustomPrice:   p.CustomPrice,
		UpdatedAt:     p.UpdatedAt,
	}
	if customer != nil {
		out.Customer = dto.UserRef{ID: customer.ID, Name: customer.Name, Email: customer.Email}
	}
	if product != nil {
		out.Product = dto.ProductRef{ID: product.ID, Name: product.Name, SKU: product.SKU, Unit: product.Unit}
		out.BasePrice = product.Price
	}
	return out
}
