package repository

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

// OrderRepository puerto de persistencia para Order (cabecera + líneas).
type OrderRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDs devuelve solo los pedidos encontrados, en el orden de ids. Dentro de una
	// transacción las filas quedan bloqueadas hasta el commit.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Order, error)
	// Update persiste los campos mutables de la cabecera (las líneas son inmutables).
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter query.Expr, limit, offset int) ([]*entity.Order, int, error)
}
