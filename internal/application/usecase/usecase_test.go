package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

var (
	superCaller = access.Caller{UserID: "sa", Role: entity.RoleAdmin, IsSuperAdmin: true}
	adminCaller = access.Caller{UserID: "a1", Role: entity.RoleAdmin}
	distCaller  = access.Caller{UserID: "d1", Role: entity.RoleDistributor}
	custCaller  = access.Caller{UserID: "c1", Role: entity.RoleCustomer}
)

func hierarchy() *memUsers {
	return newMemUsers(
		&entity.User{ID: "sa", Name: "Root", Email: "root@vendofy.test", Role: entity.RoleAdmin, IsActive: true},
		&entity.User{ID: "a1", Name: "Admin", Email: "a1@vendofy.test", Role: entity.RoleAdmin, ParentID: "sa", IsActive: true},
		&entity.User{ID: "d1", Name: "Dist", Email: "d1@vendofy.test", Role: entity.RoleDistributor, ParentID: "a1", IsActive: true},
		&entity.User{ID: "c1", Name: "Cli", Email: "c1@vendofy.test", Role: entity.RoleCustomer, ParentID: "d1", IsActive: true},
		&entity.User{ID: "c9", Name: "Otro", Email: "c9@vendofy.test", Role: entity.RoleCustomer, ParentID: "d9", IsActive: true},
	)
}

func TestUserCreate_SiguienteNivelDeLaJerarquia(t *testing.T) {
	repo := hierarchy()
	uc := usecase.NewUserUseCase(repo, access.NewScoper(repo), "root@vendofy.test")
	ctx := context.Background()

	out, err := uc.Create(ctx, distCaller, dto.CreateUserRequest{Name: "Nuevo", Email: "Nuevo@Vendofy.test", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, out.Role)
	assert.Equal(t, "d1", out.ParentID)
	assert.Equal(t, "d1", out.CreatedBy)
	assert.Equal(t, "nuevo@vendofy.test", out.Email)

	stored := repo.byID[out.ID]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = uc.Create(ctx, distCaller, dto.CreateUserRequest{Email: "x@vendofy.test", Password: "secreto123", Role: entity.RoleDistributor})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, custCaller, dto.CreateUserRequest{Email: "y@vendofy.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, adminCaller, dto.CreateUserRequest{Email: "d1@vendofy.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	admin, err := uc.Create(ctx, superCaller, dto.CreateUserRequest{Email: "a2@vendofy.test", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
}

func TestUserList_CombinaAlcanceYBusqueda(t *testing.T) {
	repo := hierarchy()
	uc := usecase.NewUserUseCase(repo, access.NewScoper(repo), "root@vendofy.test")

	_, err := uc.List(context.Background(), distCaller, dto.ListUsersRequest{PageRequest: dto.PageRequest{Search: "ana"}})
	require.NoError(t, err)

	and, ok := repo.lastList.(query.And)
	require.True(t, ok, "el filtro debe ser una conjunción")
	assert.Contains(t, and, query.Expr(query.Eq{Field: "parent_id", Value: "d1"}))
	assert.Contains(t, and, query.Expr(query.Search{Fields: []string{"name", "email"}, Text: "ana"}))
}

func TestUserGet_Alcance(t *testing.T) {
	repo := hierarchy()
	uc := usecase.NewUserUseCase(repo, access.NewScoper(repo), "root@vendofy.test")
	ctx := context.Background()

	got, err := uc.GetByID(ctx, adminCaller, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	assert.Equal(t, "Dist", got.Parent.Name)

	_, err = uc.GetByID(ctx, distCaller, "c9")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.GetByID(ctx, custCaller, "d1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	root, err := uc.GetByID(ctx, superCaller, "sa")
	require.NoError(t, err)
	assert.True(t, root.IsSuperAdmin)
}

func TestUserUpdate_NoPuedeDesactivarseASiMismo(t *testing.T) {
	repo := hierarchy()
	uc := usecase.NewUserUseCase(repo, access.NewScoper(repo), "root@vendofy.test")
	off := false

	_, err := uc.Update(context.Background(), distCaller, "d1", dto.UpdateUserRequest{IsActive: &off})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Update(context.Background(), distCaller, "c1", dto.UpdateUserRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
}

func TestProductCreate_AutoAprobadoSoloParaSuperAdmin(t *testing.T) {
	repo := &memProducts{byID: map[string]*entity.Product{}}
	uc := usecase.NewProductUseCase(repo, access.NewScoper(hierarchy()))
	ctx := context.Background()

	p, err := uc.Create(ctx, superCaller, dto.CreateProductRequest{Name: "Arroz", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusApproved, p.Status)
	require.NotNil(t, p.ApprovedAt)

	pending, err := uc.Create(ctx, adminCaller, dto.CreateProductRequest{Name: "Quinoa", Price: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusPending, pending.Status)

	_, err = uc.Create(ctx, distCaller, dto.CreateProductRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(ctx, distCaller, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un pendiente no es visible para distribuidores")

	_, err = uc.GetByID(ctx, adminCaller, pending.ID)
	assert.NoError(t, err, "el admin ve sus propios pendientes")
}

func TestProductReview(t *testing.T) {
	repo := &memProducts{byID: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Quinoa", Status: entity.ProductStatusPending, IsActive: true, CreatedBy: "a1"},
		"p2": {ID: "p2", Name: "Avena", Status: entity.ProductStatusPending, IsActive: true, CreatedBy: "a1"},
	}}
	uc := usecase.NewProductUseCase(repo, access.NewScoper(hierarchy()))
	ctx := context.Background()

	_, err := uc.Review(ctx, adminCaller, "p1", dto.ReviewProductRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ok, err := uc.Review(ctx, superCaller, "p1", dto.ReviewProductRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusApproved, ok.Status)
	assert.Equal(t, "sa", ok.ApprovedBy)

	_, err = uc.Review(ctx, superCaller, "p1", dto.ReviewProductRequest{Approve: false, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ya revisado")

	_, err = uc.Review(ctx, superCaller, "p2", dto.ReviewProductRequest{Approve: false})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rechazo sin motivo")

	rejected, err := uc.Review(ctx, superCaller, "p2", dto.ReviewProductRequest{Approve: false, Reason: "sin registro sanitario"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusRejected, rejected.Status)
	assert.Equal(t, "sin registro sanitario", rejected.RejectionReason)
}

func TestProductList_SoloAprobadosParaRolesInferiores(t *testing.T) {
	repo := &memProducts{byID: map[string]*entity.Product{}}
	uc := usecase.NewProductUseCase(repo, access.NewScoper(hierarchy()))
	_, err := uc.List(context.Background(), custCaller, dto.ListProductsRequest{})
	require.NoError(t, err)
	and, ok := repo.lastList.(query.And)
	require.True(t, ok)
	assert.Contains(t, and, query.Expr(query.Eq{Field: "status", Value: entity.ProductStatusApproved}))
	assert.Contains(t, and, query.Expr(query.Eq{Field: "is_active", Value: true}))
}

func TestSettings_AdminProponeSuperAdminAprueba(t *testing.T) {
	repo := &memSettings{changes: map[string]*entity.SettingsChange{}}
	uc := usecase.NewSettingsUseCase(repo)
	ctx := context.Background()
	changes := map[string]json.RawMessage{"min_order_amount": json.RawMessage(`50000`)}

	proposed, err := uc.Update(ctx, adminCaller, dto.UpdateSettingsRequest{Changes: changes})
	require.NoError(t, err)
	assert.False(t, proposed.Applied)
	require.NotNil(t, proposed.Change)
	assert.Equal(t, entity.SettingsChangePending, proposed.Change.Status)
	assert.Nil(t, repo.current)

	_, err = uc.Review(ctx, adminCaller, proposed.Change.ID, dto.ReviewSettingsChangeRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	reviewed, err := uc.Review(ctx, superCaller, proposed.Change.ID, dto.ReviewSettingsChangeRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.SettingsChangeApproved, reviewed.Status)

	current, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `50000`, string(current.Values["min_order_amount"]))

	_, err = uc.Review(ctx, superCaller, proposed.Change.ID, dto.ReviewSettingsChangeRequest{Approve: false})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettings_SuperAdminAplicaDirecto(t *testing.T) {
	repo := &memSettings{changes: map[string]*entity.SettingsChange{}}
	uc := usecase.NewSettingsUseCase(repo)
	out, err := uc.Update(context.Background(), superCaller, dto.UpdateSettingsRequest{
		Changes: map[string]json.RawMessage{"currency": json.RawMessage(`"COP"`)},
	})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.JSONEq(t, `"COP"`, string(out.Settings.Values["currency"]))
	assert.Empty(t, repo.changes)

	_, err = uc.Update(context.Background(), distCaller, dto.UpdateSettingsRequest{
		Changes: map[string]json.RawMessage{"currency": json.RawMessage(`"USD"`)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
