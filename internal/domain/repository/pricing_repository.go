package repository

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

// PricingRepository puerto de persistencia para los dos niveles de precio personalizado.
type PricingRepository interface {
	// UpsertAdminPricing crea o actualiza por (admin, distributor, product).
	UpsertAdminPricing(ctx context.Context, p *entity.AdminProductPricing) error
	GetAdminPricing(ctx context.Context, adminID, distributorID, productID string) (*entity.AdminProductPricing, error)
	ListAdminPricing(ctx context.Context, adminID, distributorID string) ([]*entity.AdminProductPricing, error)

	// UpsertCustomerPricing crea o actualiza por (distributor, customer, product).
	UpsertCustomerPricing(ctx context.Context, p *entity.CustomerPricing) error
	GetCustomerPricing(ctx context.Context, distributorID, customerID, productID string) (*entity.CustomerPricing, error)
	ListCustomerPricing(ctx context.Context, distributorID, customerID string) ([]*entity.CustomerPricing, error)
	DeleteCustomerPricing(ctx context.Context, distributorID, customerID, productID string) error
}
