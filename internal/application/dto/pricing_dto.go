package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetAdminPricingRequest el admin pone un producto a disposición de un distribuidor a un precio.
type SetAdminPricingRequest struct {
	DistributorID string          `json:"distributor_id" validate:"required"`
	ProductID     string          `json:"product_id" validate:"required"`
	CustomPrice   decimal.Decimal `json:"custom_price"`
	IsActive      *bool           `json:"is_active"`
}

// AdminPricingResponse salida poblada de AdminProductPricing.
type AdminPricingResponse struct {
	ID          string          `json:"id"`
	AdminID     string          `json:"admin_id"`
	Distributor UserRef         `json:"distributor"`
	Product     ProductRef      `json:"product"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CustomPrice decimal.Decimal `json:"custom_price"`
	IsActive    bool            `json:"is_active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SetCustomerPricingRequest el distribuidor fija un precio para uno de sus clientes.
type SetCustomerPricingRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	ProductID   string          `json:"product_id" validate:"required"`
	CustomPrice decimal.Decimal `json:"custom_price"`
}

// CustomerPricingResponse salida poblada de CustomerPricing.
type CustomerPricingResponse struct {
	ID            string          `json:"id"`
	DistributorID string          `json:"distributor_id"`
	Customer      UserRef         `json:"customer"`
	Product       ProductRef      `json:"product"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CustomPrice   decimal.Decimal `json:"custom_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ResolvedPriceResponse precio efectivo de un producto para un cliente.
type ResolvedPriceResponse struct {
	ProductID  string          `json:"product_id"`
	CustomerID string          `json:"customer_id"`
	Price      decimal.Decimal `json:"price"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Source     string          `json:"source"` // customer | admin | base
}
