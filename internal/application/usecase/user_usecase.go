package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios dentro de la jerarquía: cada rol crea el nivel inmediato inferior.
type UserUseCase struct {
	repo            repository.UserRepository
	scoper          *access.Scoper
	superAdminEmail string
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, scoper *access.Scoper, superAdminEmail string) *UserUseCase {
	return &UserUseCase{repo: repo, scoper: scoper, superAdminEmail: strings.ToLower(superAdminEmail)}
}

// creatableRoles roles que el llamante puede crear; el primero es el valor por defecto.
func creatableRoles(c access.Caller) []string {
	switch {
	case c.IsSuperAdmin:
		return []string{entity.RoleAdmin, entity.RoleDistributor}
	case c.Role == entity.RoleAdmin:
		return []string{entity.RoleDistributor}
	case c.Role == entity.RoleDistributor:
		return []string{entity.RoleCustomer}
	}
	return nil
}

// Create crea un usuario hijo del llamante (parent_id = created_by = llamante).
func (uc *UserUseCase) Create(ctx context.Context, caller access.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	allowed := creatableRoles(caller)
	if len(allowed) == 0 {
		return nil, domain.ErrForbidden
	}
	role := in.Role
	if role == "" {
		role = allowed[0]
	}
	permitted := false
	for _, r := range allowed {
		permitted = permitted || r == role
	}
	if !permitted {
		return nil, domain.ErrForbidden
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.Invalid("email", "es requerido")
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("password", "debe tener al menos 8 caracteres")
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		ParentID:     caller.UserID,
		CreatedBy:    caller.UserID,
		Phone:        in.Phone,
		Address:      in.Address,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = email
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.toUserResponse(user, nil), nil
}

// List usuarios visibles para el llamante, filtrables por rol y texto (nombre o email).
func (uc *UserUseCase) List(ctx context.Context, caller access.Caller, in dto.ListUsersRequest) (*dto.UserListResponse, error) {
	in.DefaultPage()
	scope, err := uc.scoper.Users(ctx, caller)
	if err != nil {
		return nil, err
	}
	filter := query.AllOf(
		scope,
		query.FieldEq("role", in.Role),
		query.TextSearch(in.Search, "name", "email"),
	)
	list, total, err := uc.repo.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	parentIDs := make([]string, 0, len(list))
	for _, u := range list {
		if u.ParentID != "" {
			parentIDs = append(parentIDs, u.ParentID)
		}
	}
	parents := map[string]*entity.User{}
	if len(parentIDs) > 0 {
		if parents, err = uc.repo.GetByIDs(ctx, parentIDs); err != nil {
			return nil, err
		}
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *uc.toUserResponse(u, parents[u.ParentID]))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetByID usuario visible para el llamante (él mismo o alguien de su alcance).
func (uc *UserUseCase) GetByID(ctx context.Context, caller access.Caller, id string) (*dto.UserResponse, error) {
	user, err := uc.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	var parent *entity.User
	if user.ParentID != "" {
		if parent, err = uc.repo.GetByID(ctx, user.ParentID); err != nil {
			return nil, err
		}
	}
	return uc.toUserResponse(user, parent), nil
}

// Update modifica datos de contacto. is_active solo lo cambia el creador (o el super-admin)
// y nadie puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, caller access.Caller, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	self := user.ID == caller.UserID
	if !self && !caller.IsSuperAdmin && user.ParentID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name", "no puede estar vacío")
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.IsActive != nil {
		if self {
			return nil, domain.Invalid("is_active", "no puedes cambiar tu propio estado")
		}
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.toUserResponse(user, nil), nil
}

// visible carga id y comprueba que esté dentro del alcance del llamante; si no, 404.
func (uc *UserUseCase) visible(ctx context.Context, caller access.Caller, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.ID == caller.UserID || caller.IsSuperAdmin {
		return user, nil
	}
	switch caller.Role {
	case entity.RoleAdmin:
		if user.Role == entity.RoleDistributor && user.ParentID == caller.UserID {
			return user, nil
		}
		if user.Role == entity.RoleCustomer && user.ParentID != "" {
			dist, err := uc.repo.GetByID(ctx, user.ParentID)
			if err != nil {
				return nil, err
			}
			if dist != nil && dist.ParentID == caller.UserID {
				return user, nil
			}
		}
	case entity.RoleDistributor:
		if user.Role == entity.RoleCustomer && user.ParentID == caller.UserID {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// IsSuperAdmin true si u es admin y su email coincide con el configurado.
func (uc *UserUseCase) IsSuperAdmin(u *entity.User) bool {
	return isSuperAdmin(u, uc.superAdminEmail)
}

func isSuperAdmin(u *entity.User, superAdminEmail string) bool {
	return u != nil && superAdminEmail != "" && u.IsAdminRole() && strings.EqualFold(u.Email, superAdminEmail)
}

func (uc *UserUseCase) toUserResponse(u *entity.User, parent *entity.User) *dto.UserResponse {
	return ToUserResponse(u, parent, uc.IsSuperAdmin(u))
}

// ToUserResponse mapea a DTO sin exponer el hash.
func ToUserResponse(u *entity.User, parent *entity.User, superAdmin bool) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		IsSuperAdmin: superAdmin,
		ParentID:     u.ParentID,
		CreatedBy:    u.CreatedBy,
		Phone:        u.Phone,
		Address:      u.Address,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if parent != nil {
		out.Parent = &dto.UserRef{ID: parent.ID, Name: parent.Name, Email: parent.Email}
	}
	return out
}
