package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// ProductUseCase catálogo con flujo de aprobación. Los productos del super-admin nacen
// aprobados; los de otros admins quedan pendientes hasta su revisión.
type ProductUseCase struct {
	repo   repository.ProductRepository
	scoper *access.Scoper
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, scoper *access.Scoper) *ProductUseCase {
	return &ProductUseCase{repo: repo, scoper: scoper}
}

// Create crea un producto (solo admins).
func (uc *ProductUseCase) Create(ctx context.Context, caller access.Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !caller.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		SKU:         strings.TrimSpace(in.SKU),
		Unit:        in.Unit,
		Price:       in.Price,
		Status:      entity.ProductStatusPending,
		IsActive:    true,
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Unit == "" {
		product.Unit = "unidad"
	}
	if caller.IsSuperAdmin {
		product.Status = entity.ProductStatusApproved
		product.ApprovedBy = caller.UserID
		product.ApprovedAt = &now
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID producto visible para el llamante.
func (uc *ProductUseCase) GetByID(ctx context.Context, caller access.Caller, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !productVisible(caller, product) {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

func productVisible(c access.Caller, p *entity.Product) bool {
	if c.IsSuperAdmin || p.Orderable() {
		return true
	}
	return c.Role == entity.RoleAdmin && p.CreatedBy == c.UserID
}

// Update modifica un producto. El creador puede editar mientras esté pendiente o rechazado
// (vuelve a pendiente); el super-admin, siempre.
func (uc *ProductUseCase) Update(ctx context.Context, caller access.Caller, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !productVisible(caller, product) {
		return nil, domain.ErrNotFound
	}
	if !caller.IsSuperAdmin {
		if product.CreatedBy != caller.UserID || !caller.Is(entity.RoleAdmin) {
			return nil, domain.ErrForbidden
		}
		if product.Status == entity.ProductStatusApproved && (in.Name != nil || in.Price != nil || in.Unit != nil || in.Description != nil) {
			return nil, domain.Invalid("status", "un producto aprobado solo lo edita el super-admin")
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name", "no puede estar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Invalid("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if product.Status == entity.ProductStatusRejected && !caller.IsSuperAdmin {
		product.Status = entity.ProductStatusPending
		product.RejectionReason = ""
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Review aprueba o rechaza un producto pendiente (solo super-admin).
func (uc *ProductUseCase) Review(ctx context.Context, caller access.Caller, id string, in dto.ReviewProductRequest) (*dto.ProductResponse, error) {
	if !caller.IsSuperAdmin {
		return nil, domain.ErrForbidden
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Status != entity.ProductStatusPending {
		return nil, domain.Invalid("status", "el producto %q ya fue revisado (%s)", product.Name, product.Status)
	}
	now := time.Now()
	if in.Approve {
		product.Status = entity.ProductStatusApproved
		product.ApprovedBy = caller.UserID
		product.ApprovedAt = &now
		product.RejectionReason = ""
	} else {
		if strings.TrimSpace(in.Reason) == "" {
			return nil, domain.Invalid("reason", "es requerido al rechazar")
		}
		product.Status = entity.ProductStatusRejected
		product.RejectionReason = strings.TrimSpace(in.Reason)
	}
	product.UpdatedAt = now
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List catálogo visible para el llamante.
func (uc *ProductUseCase) List(ctx context.Context, caller access.Caller, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := query.AllOf(
		uc.scoper.Products(caller),
		query.FieldEq("status", in.Status),
		query.TextSearch(in.Search, "name", "sku", "description"),
	)
	list, total, err := uc.repo.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		SKU:             p.SKU,
		Unit:            p.Unit,
		Price:           p.Price,
		Status:          p.Status,
		IsActive:        p.IsActive,
		CreatedBy:       p.CreatedBy,
		ApprovedBy:      p.ApprovedBy,
		ApprovedAt:      p.ApprovedAt,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
