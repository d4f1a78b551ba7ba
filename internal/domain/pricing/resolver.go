// Package pricing resuelve el precio unitario efectivo de un producto para un cliente.
//
// Precedencia (mayor primero):
//
//	1. CustomerPricing (distribuidor → cliente)
//	2. AdminProductPricing (admin → distribuidor), solo si IsActive
//	3. Product.Price (precio base)
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

// Source nivel de precio que se aplicó.
type Source string

const (
	SourceCustomer Source = "customer"
	SourceAdmin    Source = "admin"
	SourceBase     Source = "base"
)

// Input overrides candidatos para un producto. Los punteros nil significan "sin override".
type Input struct {
	Product         *entity.Product
	CustomerPricing *entity.CustomerPricing
	AdminPricing    *entity.AdminProductPricing
}

// Resolve devuelve el precio unitario y el nivel que lo originó.
// Un producto no aprobado o inactivo es un error de validación que lo nombra; nunca se
// cae silenciosamente al precio base.
func Resolve(in Input) (decimal.Decimal, Source, error) {
	p := in.Product
	if p == nil {
		return decimal.Zero, "", domain.ErrNotFound
	}
	if !p.Orderable() {
		return decimal.Zero, "", domain.Invalid("items", "el producto %q no está disponible para pedidos (estado: %s, activo: %t)", p.Name, p.Status, p.IsActive)
	}
	if cp := in.CustomerPricing; cp != nil && cp.ProductID == p.ID {
		return cp.CustomPrice, SourceCustomer, nil
	}
	if ap := in.AdminPricing; ap != nil && ap.ProductID == p.ID && ap.IsActive {
		return ap.CustomPrice, SourceAdmin, nil
	}
	return p.Price, SourceBase, nil
}

// LineTotal precio * cantidad.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotal suma de los subtotales de las líneas.
func OrderTotal(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it.Price, it.Quantity))
	}
	return total
}
