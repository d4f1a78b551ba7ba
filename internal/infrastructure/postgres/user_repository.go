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

var _ repository.UserRepository = (*UserRepo)(nil)

// userColumns campos filtrables de users.
var userColumns = Columns{
	"id":        "id",
	"role":      "role",
	"parent_id": "parent_id",
	"name":      "name",
	"email":     "email",
	"is_active": "is_active",
}

const userSelect = `
	SELECT id, name, email, password_hash, role, COALESCE(parent_id, ''), COALESCE(created_by, ''),
	       phone, address, is_active, created_at, updated_at
	FROM users`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ParentID, &u.CreatedBy,
		&u.Phone, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, parent_id, created_by, phone, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, nullIfEmpty(user.ParentID), nullIfEmpty(user.CreatedBy),
		user.Phone, user.Address, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var dup *domain.DuplicateError
		if err = writeError("insert user", err); errors.As(err, &dup) && dup.Field == "email" {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (ya normalizado a minúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByIDs carga varios usuarios en una sola consulta.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, userSelect+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// Update actualiza los datos editables de un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET name = $2, phone = $3, address = $4, is_active = $5, password_hash = $6, updated_at = $7
		WHERE id = $1`,
		user.ID, user.Name, user.Phone, user.Address, user.IsActive, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		return writeError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List usuarios que cumplen filter, más recientes primero, con el total sin paginar.
func (r *UserRepo) List(ctx context.Context, filter query.Expr, limit, offset int) ([]*entity.User, int, error) {
	where, args, err := RenderSQL(filter, userColumns, 1)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, userSelect, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// ListIDsByParent IDs de los hijos directos con el rol indicado.
func (r *UserRepo) ListIDsByParent(ctx context.Context, parentID, role string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM users WHERE parent_id = $1 AND role = $2`, parentID, role)
	if err != nil {
		return nil, fmt.Errorf("list users by parent: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
