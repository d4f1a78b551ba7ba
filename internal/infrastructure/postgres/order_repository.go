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

var _ repository.OrderRepository = (*OrderRepo)(nil)

var orderColumns = Columns{
	"id":               "id",
	"order_number":     "order_number",
	"customer_id":      "customer_id",
	"distributor_id":   "distributor_id",
	"admin_id":         "admin_id",
	"status":           "status",
	"payment_status":   "payment_status",
	"marked_for_today": "marked_for_today",
	"sent_to_admin":    "sent_to_admin",
	"received_at":      "received_at",
	"notes":            "notes",
}

const orderSelect = `
	SELECT id, order_number, customer_id, distributor_id, admin_id, total_amount, status,
	       desired_delivery_date, current_delivery_date, marked_for_today, sent_to_admin,
	       sent_to_admin_at, admin_received_at, received_at, amount_paid, payment_status, notes,
	       created_at, updated_at
	FROM orders`

// OrderRepo pedidos (cabecera en orders, líneas en order_items).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.DistributorID, &o.AdminID, &o.TotalAmount, &o.Status,
		&o.DesiredDeliveryDate, &o.CurrentDeliveryDate, &o.MarkedForToday, &o.SentToAdmin,
		&o.SentToAdminAt, &o.AdminReceivedAt, &o.ReceivedAt, &o.AmountPaid, &o.PaymentStatus, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta cabecera y líneas en un único lote; fuera de una tx explícita el lote
// corre en una transacción implícita.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (id, order_number, customer_id, distributor_id, admin_id, total_amount, status,
		                    desired_delivery_date, current_delivery_date, marked_for_today, sent_to_admin,
		                    sent_to_admin_at, admin_received_at, received_at, amount_paid, payment_status, notes,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		o.ID, o.OrderNumber, o.CustomerID, o.DistributorID, o.AdminID, o.TotalAmount, o.Status,
		o.DesiredDeliveryDate, o.CurrentDeliveryDate, o.MarkedForToday, o.SentToAdmin,
		utc(o.SentToAdminAt), utc(o.AdminReceivedAt), utc(o.ReceivedAt), o.AmountPaid, o.PaymentStatus, o.Notes,
		o.CreatedAt, o.UpdatedAt,
	)
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, i+1, it.ProductID, it.ProductName, it.Quantity, it.Price,
		)
	}
	br := sendBatch(ctx, r.q, batch)
	if br == nil {
		return fmt.Errorf("insert order: el querier no soporta lotes")
	}
	defer br.Close()
	for range batch.QueuedQueries {
		if _, err := br.Exec(); err != nil {
			return writeError("insert order", err)
		}
	}
	return nil
}

// batcher lo implementan *pgxpool.Pool y pgx.Tx.
type batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func sendBatch(ctx context.Context, q Querier, b *pgx.Batch) pgx.BatchResults {
	if bq, ok := q.(batcher); ok {
		return bq.SendBatch(ctx, b)
	}
	return nil
}

// GetByID pedido con sus líneas; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDs pedidos encontrados en el orden de ids. Bloquea las filas (FOR UPDATE):
// dentro de una tx serializa transiciones concurrentes sobre el mismo pedido.
func (r *OrderRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, orderSelect+` WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("get orders by ids: %w", err)
	}
	byID := make(map[string]*entity.Order, len(ids))
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		byID[o.ID] = o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Order, 0, len(byID))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persiste los campos mutables de la cabecera.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, current_delivery_date = $3, marked_for_today = $4, sent_to_admin = $5,
		       sent_to_admin_at = $6, admin_received_at = $7, received_at = $8, amount_paid = $9,
		       payment_status = $10, updated_at = $11
		WHERE id = $1`,
		o.ID, o.Status, o.CurrentDeliveryDate, o.MarkedForToday, o.SentToAdmin,
		utc(o.SentToAdminAt), utc(o.AdminReceivedAt), utc(o.ReceivedAt), o.AmountPaid,
		o.PaymentStatus, o.UpdatedAt,
	)
	if err != nil {
		return writeError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pedidos que cumplen filter, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, filter query.Expr, limit, offset int) ([]*entity.Order, int, error) {
	where, args, err := RenderSQL(filter, orderColumns, 1)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, orderSelect, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadItems carga las líneas de todos los pedidos en una consulta.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = o.Items[:0]
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, product_name, quantity, price
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
