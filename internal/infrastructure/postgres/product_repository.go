package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = Columns{
	"id":          "id",
	"name":        "name",
	"sku":         "sku",
	"description": "description",
	"status":      "status",
	"is_active":   "is_active",
	"created_by":  "created_by",
}

const productSelect = `
	SELECT id, name, description, sku, unit, price, status, is_active, created_by,
	       COALESCE(approved_by, ''), approved_at, rejection_reason, created_at, updated_at
	FROM products`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.Unit, &p.Price, &p.Status, &p.IsActive,
		&p.CreatedBy, &p.ApprovedBy, &p.ApprovedAt, &p.RejectionReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, description, sku, unit, price, status, is_active, created_by,
		                      approved_by, approved_at, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.Name, p.Description, p.SKU, p.Unit, p.Price, p.Status, p.IsActive, p.CreatedBy,
		nullIfEmpty(p.ApprovedBy), utc(p.ApprovedAt), p.RejectionReason, p.CreatedAt, p.UpdatedAt,
	)
	return writeError("insert product", err)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByIDs carga varios productos en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, productSelect+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Update actualiza un producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, sku = $4, unit = $5, price = $6, status = $7,
		       is_active = $8, approved_by = $9, approved_at = $10, rejection_reason = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.SKU, p.Unit, p.Price, p.Status,
		p.IsActive, nullIfEmpty(p.ApprovedBy), utc(p.ApprovedAt), p.RejectionReason, p.UpdatedAt,
	)
	if err != nil {
		return writeError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos que cumplen filter, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, filter query.Expr, limit, offset int) ([]*entity.Product, int, error) {
	where, args, err := RenderSQL(filter, productColumns, 1)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`%s WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d`, productSelect, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
