package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	SKU         string          `json:"sku" validate:"max=100"`
	Unit        string          `json:"unit" validate:"max=30"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Unit        *string          `json:"unit" validate:"omitempty,max=30"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"is_active"`
}

// ReviewProductRequest aprobación o rechazo (super-admin).
type ReviewProductRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"max=500"`
}

// ListProductsRequest filtros de listado.
type ListProductsRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	Price           decimal.Decimal `json:"price"`
	Status          string          `json:"status"`
	IsActive        bool            `json:"is_active"`
	CreatedBy       string          `json:"created_by"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
