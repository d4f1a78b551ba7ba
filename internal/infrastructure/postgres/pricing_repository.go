package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

var _ repository.PricingRepository = (*PricingRepo)(nil)

// PricingRepo precios personalizados admin→distribuidor y distribuidor→cliente.
type PricingRepo struct {
	q Querier
}

// NewPricingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPricingRepository(q Querier) *PricingRepo {
	return &PricingRepo{q: q}
}

// UpsertAdminPricing inserta o actualiza por (admin, distributor, product); conserva el id existente.
func (r *PricingRepo) UpsertAdminPricing(ctx context.Context, p *entity.AdminProductPricing) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO admin_product_pricing (id, admin_id, distributor_id, product_id, custom_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT admin_product_pricing_key
		DO UPDATE SET custom_price = EXCLUDED.custom_price, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		p.ID, p.AdminID, p.DistributorID, p.ProductID, p.CustomPrice, p.IsActive, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	return writeError("upsert admin pricing", err)
}

const adminPricingSelect = `
	SELECT id, admin_id, distributor_id, product_id, custom_price, is_active, created_at, updated_at
	FROM admin_product_pricing`

func scanAdminPricing(row pgx.Row) (*entity.AdminProductPricing, error) {
	var p entity.AdminProductPricing
	if err := row.Scan(&p.ID, &p.AdminID, &p.DistributorID, &p.ProductID, &p.CustomPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAdminPricing override del admin para un distribuidor y producto; (nil, nil) si no existe.
func (r *PricingRepo) GetAdminPricing(ctx context.Context, adminID, distributorID, productID string) (*entity.AdminProductPricing, error) {
	p, err := scanAdminPricing(r.q.QueryRow(ctx, adminPricingSelect+`
		WHERE admin_id = $1 AND distributor_id = $2 AND product_id = $3`, adminID, distributorID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin pricing: %w", err)
	}
	return p, nil
}

// ListAdminPricing overrides de un admin; adminID o distributorID vacíos no filtran.
func (r *PricingRepo) ListAdminPricing(ctx context.Context, adminID, distributorID string) ([]*entity.AdminProductPricing, error) {
	rows, err := r.q.Query(ctx, adminPricingSelect+`
		WHERE ($1 = '' OR admin_id = $1) AND ($2 = '' OR distributor_id = $2)
		ORDER BY distributor_id, product_id`, adminID, distributorID)
	if err != nil {
		return nil, fmt.Errorf("list admin pricing: %w", err)
	}
	defer rows.Close()
	var out []*entity.AdminProductPricing
	for rows.Next() {
		p, err := scanAdminPricing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin pricing: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertCustomerPricing inserta o actualiza por (distributor, customer, product).
func (r *PricingRepo) UpsertCustomerPricing(ctx context.Context, p *entity.CustomerPricing) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO customer_pricing (id, distributor_id, customer_id, product_id, custom_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT customer_pricing_key
		DO UPDATE SET custom_price = EXCLUDED.custom_price, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		p.ID, p.DistributorID, p.CustomerID, p.ProductID, p.CustomPrice, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	return writeError("upsert customer pricing", err)
}

const customerPricingSelect = `
	SELECT id, distributor_id, customer_id, product_id, custom_price, created_at, updated_at
	FROM customer_pricing`

func scanCustomerPricing(row pgx.Row) (*entity.CustomerPricing, error) {
	var p entity.CustomerPricing
	if err := row.Scan(&p.ID, &p.DistributorID, &p.CustomerID, &p.ProductID, &p.CustomPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCustomerPricing override del distribuidor para un cliente y producto; (nil, nil) si no existe.
func (r *PricingRepo) GetCustomerPricing(ctx context.Context, distributorID, customerID, productID string) (*entity.CustomerPricing, error) {
	p, err := scanCustomerPricing(r.q.QueryRow(ctx, customerPricingSelect+`
		WHERE distributor_id = $1 AND customer_id = $2 AND product_id = $3`, distributorID, customerID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer pricing: %w", err)
	}
	return p, nil
}

// ListCustomerPricing overrides de un cliente.
func (r *PricingRepo) ListCustomerPricing(ctx context.Context, distributorID, customerID string) ([]*entity.CustomerPricing, error) {
	rows, err := r.q.Query(ctx, customerPricingSelect+`
		WHERE distributor_id = $1 AND customer_id = $2 ORDER BY product_id`, distributorID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer pricing: %w", err)
	}
	defer rows.Close()
	var out []*entity.CustomerPricing
	for rows.Next() {
		p, err := scanCustomerPricing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer pricing: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteCustomerPricing elimina el override; no falla si no existía.
func (r *PricingRepo) DeleteCustomerPricing(ctx context.Context, distributorID, customerID, productID string) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM customer_pricing WHERE distributor_id = $1 AND customer_id = $2 AND product_id = $3`,
		distributorID, customerID, productID)
	if err != nil {
		return fmt.Errorf("delete customer pricing: %w", err)
	}
	return nil
}
