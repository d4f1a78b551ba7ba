package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/auth"
	"github.com/jhoicas/vendofy-api/internal/application/ordering"
	"github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/vendofy-api/internal/interfaces/http"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

const password = "secreto123"

type testServer struct {
	app    *fiber.App
	orders *memOrders
}

func newTestServer(t *testing.T, loginLimit int) *testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := func(id, email, role, parent string) *entity.User {
		return &entity.User{ID: id, Name: id, Email: email, Role: role, ParentID: parent, PasswordHash: string(hash), IsActive: true}
	}
	users := &memUsers{byID: map[string]*entity.User{
		"a1": user("a1", "a1@x.co", entity.RoleAdmin, ""),
		"d1": user("d1", "d1@x.co", entity.RoleDistributor, "a1"),
		"c1": user("c1", "c1@x.co", entity.RoleCustomer, "d1"),
		"c2": user("c2", "c2@x.co", entity.RoleCustomer, "d1"),
	}}
	products := &memProducts{byID: map[string]*entity.Product{
		"rice":   {ID: "rice", Name: "Arroz", Price: decimal.NewFromInt(10), Status: entity.ProductStatusApproved, IsActive: true},
		"quinoa": {ID: "quinoa", Name: "Quinoa", Price: decimal.NewFromInt(30), Status: entity.ProductStatusPending, IsActive: true},
	}}
	orders := &memOrders{byID: map[string]entity.Order{}}
	denylist := newMemDenylist()
	scoper := access.NewScoper(users)
	prices := pricing.NewService(users, products, noPricing{})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(users, denylist, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, "root@x.co"),
		UserUC:     usecase.NewUserUseCase(users, scoper, "root@x.co"),
		ProductUC:  usecase.NewProductUseCase(products, scoper),
		SettingsUC: usecase.NewSettingsUseCase(&memSettings{changes: map[string]*entity.SettingsChange{}}),
		Pricing:    prices,
		Orders: ordering.NewUseCase(directTx{orders}, orders, users, products, prices, scoper,
			nopNotifier{}, pdf.NewDeliveryNoteGenerator(), nil, nil),
		Denylist:       denylist,
		JWTSecret:      testJWTSecret,
		LoginRateLimit: loginLimit,
	})
	return &testServer{app: app, orders: orders}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

type orderBody struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t, 0)
	customer := s.login(t, "c1@x.co")
	distributor := s.login(t, "d1@x.co")
	desired := time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)

	// Producto pendiente: 400 nombrándolo, sin pedido creado.
	status, body := s.do(t, http.MethodPost, "/api/orders", customer, fiber.Map{
		"items":                 []fiber.Map{{"product_id": "rice", "quantity": 1}, {"product_id": "quinoa", "quantity": 1}},
		"desired_delivery_date": desired,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Quinoa")
	assert.Equal(t, 0, s.orders.count())

	// Un distribuidor no puede crear pedidos.
	status, _ = s.do(t, http.MethodPost, "/api/orders", distributor, fiber.Map{
		"items": []fiber.Map{{"product_id": "rice", "quantity": 1}}, "desired_delivery_date": desired,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPost, "/api/orders", customer, fiber.Map{
		"items":                 []fiber.Map{{"product_id": "rice", "quantity": 4}},
		"desired_delivery_date": desired,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created orderBody
	require.NoError(t, json.Unmarshal(body, &created))
	assert.True(t, decimal.NewFromInt(40).Equal(created.TotalAmount))
	assert.Equal(t, entity.OrderStatusPending, created.Status)

	// Otro cliente no ve el pedido.
	other := s.login(t, "c2@x.co")
	status, _ = s.do(t, http.MethodGet, "/api/orders/"+created.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Recibir sin marcar para hoy es inválido.
	status, _ = s.do(t, http.MethodPost, "/api/orders/mark-received", distributor, fiber.Map{"order_ids": []string{created.ID}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodPost, "/api/orders/mark-for-today", distributor, fiber.Map{"order_ids": []string{created.ID}})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"updated":1`)

	status, _ = s.do(t, http.MethodPost, "/api/orders/"+created.ID+"/received", distributor, nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = s.do(t, http.MethodPost, "/api/orders/"+created.ID+"/received", distributor, nil)
	assert.Equal(t, http.StatusBadRequest, status, "doble recepción")
	assert.Contains(t, string(body), "VALIDATION")

	status, body = s.do(t, http.MethodPatch, "/api/orders/"+created.ID+"/payment", customer, fiber.Map{"amount_paid": "20"})
	require.Equal(t, http.StatusOK, status, string(body))
	var paid orderBody
	require.NoError(t, json.Unmarshal(body, &paid))
	assert.Equal(t, entity.PaymentStatusPartial, paid.PaymentStatus)
	assert.Equal(t, entity.OrderStatusDelivered, paid.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+distributor)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), created.OrderNumber)
}

func TestBulkForeignOrder_Forbidden(t *testing.T) {
	s := newTestServer(t, 0)
	s.orders.byID["foreign"] = entity.Order{ID: "foreign", OrderNumber: "ORD-X", DistributorID: "d9", CustomerID: "c9", AdminID: "a9"}
	distributor := s.login(t, "d1@x.co")

	status, body := s.do(t, http.MethodPost, "/api/orders/mark-for-today", distributor, fiber.Map{"order_ids": []string{"foreign"}})
	assert.Equal(t, http.StatusForbidden, status, string(body))
	assert.False(t, s.orders.byID["foreign"].MarkedForToday)

	status, _ = s.do(t, http.MethodPost, "/api/orders/mark-for-today", distributor, fiber.Map{"order_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogout_RevocaToken(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, "c1@x.co")

	status, body := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"email":"c1@x.co"`)

	status, _ = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newTestServer(t, 0)
	status, body := s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "c1@x.co", "password": "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "UNAUTHORIZED")

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogin_RateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	var last int
	for i := 0; i < 3; i++ {
		last, _ = s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "c1@x.co", "password": "mala"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestErrorHandler_Mapeo(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	cases := map[string]error{
		"/dup":       fmt.Errorf("crear: %w", &domain.DuplicateError{Field: "email"}),
		"/invalid":   domain.Invalid("items", "el producto %q no existe", "X"),
		"/forbidden": domain.ErrForbidden,
		"/missing":   fmt.Errorf("get: %w", domain.ErrNotFound),
		"/boom":      errors.New("conexión perdida con 10.0.0.1"),
	}
	for path, err := range cases {
		err := err
		app.Get(path, func(*fiber.Ctx) error { return err })
	}
	want := map[string]struct {
		status int
		code   string
	}{
		"/dup":       {http.StatusBadRequest, "DUPLICATE"},
		"/invalid":   {http.StatusBadRequest, "VALIDATION"},
		"/forbidden": {http.StatusForbidden, "FORBIDDEN"},
		"/missing":   {http.StatusNotFound, "NOT_FOUND"},
		"/boom":      {http.StatusInternalServerError, "INTERNAL"},
	}
	for path, w := range want {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, w.status, resp.StatusCode, path)
		assert.Contains(t, string(body), w.code, path)
		assert.NotContains(t, string(body), "10.0.0.1", "los 500 no filtran detalles internos")
	}
}

func TestRutaInexistente_Retorna404SinToken(t *testing.T) {
	s := newTestServer(t, 0)

	status, _ := s.do(t, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCrearUsuario_DistribuidorCreaCliente(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.login(t, "d1@x.co")

	status, body := s.do(t, http.MethodPost, "/api/users", token, fiber.Map{"name": "Nuevo", "email": "nuevo@x.co", "password": password})
	require.Equal(t, http.StatusCreated, status, string(body))
	var out struct {
		Role     string `json:"role"`
		ParentID string `json:"parent_id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.RoleCustomer, out.Role)
	assert.Equal(t, "d1", out.ParentID)

	s.login(t, "nuevo@x.co")
}
