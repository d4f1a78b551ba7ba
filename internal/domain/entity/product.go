package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del flujo de aprobación de productos.
const (
	ProductStatusPending  = "pending"
	ProductStatusApproved = "approved"
	ProductStatusRejected = "rejected"
)

// Product producto del catálogo. Price es el precio base antes de overrides.
type Product struct {
	ID              string
	Name            string
	Description     string
	SKU             string
	Unit            string
	Price           decimal.Decimal
	Status          string
	IsActive        bool
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Orderable true si el producto puede incluirse en un pedido.
func (p *Product) Orderable() bool {
	return p.Status == ProductStatusApproved && p.IsActive
}
