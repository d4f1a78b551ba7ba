package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdminProductPricing precio que un admin fija para un distribuidor sobre un producto.
// Única por (AdminID, DistributorID, ProductID).
type AdminProductPricing struct {
	ID            string
	AdminID       string
	DistributorID string
	ProductID     string
	CustomPrice   decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CustomerPricing override de un distribuidor para un cliente.
// Única por (DistributorID, CustomerID, ProductID).
type CustomerPricing struct {
	ID            string
	DistributorID string
	CustomerID    string
	ProductID     string
	CustomPrice   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
