package repository

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List aplica filter (ya combinado con el alcance del rol) y devuelve además el total.
	List(ctx context.Context, filter query.Expr, limit, offset int) ([]*entity.User, int, error)
	// ListIDsByParent IDs de los hijos directos con el rol indicado.
	ListIDsByParent(ctx context.Context, parentID, role string) ([]string, error)
}
