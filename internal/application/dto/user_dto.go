package dto

import "time"

// CreateUserRequest entrada para crear un usuario hijo del llamante (password en texto, se hashea en use case).
// El rol por defecto es el siguiente nivel de la jerarquía del llamante.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin distributor customer"`
	Phone    string `json:"phone" validate:"max=30"`
	Address  string `json:"address" validate:"max=300"`
}

// UpdateUserRequest campos opcionales a modificar.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	IsActive *bool   `json:"is_active"`
}

// ListUsersRequest filtros de listado.
type ListUsersRequest struct {
	PageRequest
	Role string `query:"role" validate:"omitempty,oneof=admin distributor customer"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	ParentID     string    `json:"parent_id,omitempty"`
	Parent       *UserRef  `json:"parent,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
