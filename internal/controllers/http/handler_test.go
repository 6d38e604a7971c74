package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	httpapi "adminhub/internal/controllers/http"
	"adminhub/internal/domain"
	"adminhub/internal/infra/media"
	"adminhub/internal/infra/rabbitmq"
	"adminhub/internal/repository/memory"
	"adminhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret   = "test-secret"
	testPassword = "s3cret-pass"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	auth   *services.AuthService
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := memory.NewStore()
	m := media.Disabled{}
	auth := services.NewAuthService(store, testSecret, time.Hour, log)

	h := httpapi.NewHandler(httpapi.Services{
		Auth:          auth,
		Orders:        services.NewOrderService(store, rabbitmq.NoopPublisher{}, log),
		Catalog:       services.NewCatalogService(store, m, log),
		Categories:    services.NewCategoryService(store, m, log),
		Ledger:        services.NewLedgerService(store, log),
		Notifications: services.NewNotificationService(store),
		Settings:      services.NewSettingsService(store),
		Employees:     services.NewEmployeeService(store, m, log),
		Dashboard:     services.NewDashboardService(store, log),
	}, log)

	r := gin.New()
	h.RegisterRoutes(r)
	return &testServer{router: r, store: store, auth: auth}
}

func (s *testServer) seedUser(t *testing.T, email string) (*domain.User, string) {
	t.Helper()
	hash, err := services.HashPassword(testPassword)
	require.NoError(t, err)
	u := &domain.User{Name: "User " + email, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	require.NoError(t, s.store.Repos().Users.Create(context.Background(), u))
	token, _, err := s.auth.IssueToken(u)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) seedProduct(t *testing.T, sku string, stock int) *domain.Product {
	t.Helper()
	ctx := context.Background()
	c := &domain.Category{Name: "Cat " + sku, Slug: domain.Slugify("cat " + sku), IsActive: true}
	require.NoError(t, s.store.Repos().Categories.Create(ctx, c))
	p := &domain.Product{Name: "Product " + sku, SKU: sku, Price: decimal.NewFromInt(25), CategoryID: c.ID}
	p.SetStock(stock)
	require.NoError(t, s.store.Repos().Products.Create(ctx, p))
	return p
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doForm(t *testing.T, method, path, token string, fields map[string]string, withImage bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := setupRouter(t)
	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			body:       gin.H{"email": "admin@example.com", "password": testPassword},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       gin.H{"email": "admin@example.com", "password": "nope-nope"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid email or password",
		},
		{
			name:       "malformed body",
			body:       gin.H{"email": "not-an-email"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupRouter(t)
			s.seedUser(t, "admin@example.com")

			w := s.do(t, http.MethodPost, "/api/auth/login", "", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}
			if tt.wantStatus == http.StatusOK {
				assert.NotEmpty(t, resp["token"])
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPublicReadsNeedNoToken(t *testing.T) {
	s := setupRouter(t)
	s.seedProduct(t, "SKU-1", 3)

	for _, path := range []string{"/api/products", "/api/categories", "/api/orders", "/api/transactions"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int
		wantStatus int
		wantError  string
		wantStock  int
	}{
		{name: "success", quantity: 2, wantStatus: http.StatusCreated, wantStock: 1},
		{
			name:       "insufficient stock",
			quantity:   4,
			wantStatus: http.StatusBadRequest,
			wantError:  "Insufficient stock for product: Product SKU-1",
			wantStock:  3,
		},
		{name: "zero quantity rejected by binding", quantity: 0, wantStatus: http.StatusBadRequest, wantStock: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupRouter(t)
			_, token := s.seedUser(t, "admin@example.com")
			p := s.seedProduct(t, "SKU-1", 3)

			w := s.do(t, http.MethodPost, "/api/orders", token, gin.H{
				"customer":      gin.H{"name": "Jane Doe", "email": "jane@example.com"},
				"items":         []gin.H{{"product": p.ID, "quantity": tt.quantity}},
				"paymentMethod": "card",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}
			if tt.wantStatus == http.StatusCreated {
				order := resp["order"].(map[string]any)
				assert.Equal(t, "#ORD-12345", order["orderNumber"])
				assert.Equal(t, string(domain.StatusProcessing), order["status"])
			}

			got, err := s.store.Repos().Products.FindByID(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got.Stock)
		})
	}
}

func TestUpdateOrder(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")
	p := s.seedProduct(t, "SKU-1", 3)

	w := s.do(t, http.MethodPost, "/api/orders", token, gin.H{
		"customer": gin.H{"name": "Jane Doe", "email": "jane@example.com"},
		"items":    []gin.H{{"product": p.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["order"].(map[string]any)["id"]
	path := fmt.Sprintf("/api/orders/%v", id)

	w = s.do(t, http.MethodPut, path, token, gin.H{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, path, token, gin.H{"status": "Cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cancelled", decode(t, w)["order"].(map[string]any)["status"])

	got, err := s.store.Repos().Products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	w = s.do(t, http.MethodGet, "/api/orders/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		fields     func(categoryID uint64) map[string]string
		withImage  bool
		wantStatus int
	}{
		{
			name: "success without image",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "price": "19.99", "stock": "4", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "image with uploads disabled",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "price": "19.99", "stock": "4", "category": fmt.Sprint(id)}
			},
			withImage:  true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid price",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "price": "cheap", "stock": "4", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing price",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "stock": "4", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing stock",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "price": "19.99", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown category",
			fields: func(uint64) map[string]string {
				return map[string]string{"name": "Lamp", "sku": "LAMP-1", "price": "1", "stock": "1", "category": "999"}
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupRouter(t)
			_, token := s.seedUser(t, "admin@example.com")
			cat := &domain.Category{Name: "Lighting", Slug: "lighting", IsActive: true}
			require.NoError(t, s.store.Repos().Categories.Create(context.Background(), cat))

			w := s.doForm(t, http.MethodPost, "/api/products", token, tt.fields(cat.ID), tt.withImage)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				product := decode(t, w)["product"].(map[string]any)
				assert.Equal(t, "LAMP-1", product["sku"])
				assert.Equal(t, string(domain.StockLowStock), product["status"])
				assert.Equal(t, []any{}, product["images"])
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	tests := []struct {
		name       string
		fields     func(categoryID uint64) map[string]string
		wantStatus int
		wantStock  int
	}{
		{
			name: "success",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Desk", "sku": "DESK-1", "price": "30", "stock": "12", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusOK,
			wantStock:  12,
		},
		{
			name: "missing stock keeps current stock",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Desk", "sku": "DESK-1", "price": "30", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
			wantStock:  40,
		},
		{
			name: "missing price",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Desk", "sku": "DESK-1", "stock": "12", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
			wantStock:  40,
		},
		{
			name: "blank stock",
			fields: func(id uint64) map[string]string {
				return map[string]string{"name": "Desk", "sku": "DESK-1", "price": "30", "stock": " ", "category": fmt.Sprint(id)}
			},
			wantStatus: http.StatusBadRequest,
			wantStock:  40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupRouter(t)
			_, token := s.seedUser(t, "admin@example.com")
			p := s.seedProduct(t, "DESK-1", 40)

			w := s.doForm(t, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID), token, tt.fields(p.CategoryID), false)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			got, err := s.store.Repos().Products.FindByID(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, got.Stock)
			if tt.wantStatus == http.StatusOK {
				product := decode(t, w)["product"].(map[string]any)
				assert.Equal(t, float64(12), product["stock"])
				assert.Equal(t, []any{}, product["images"])
			}
		})
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")

	w := s.doForm(t, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Home & Garden", "isActive": "true", "parentCategory": "null",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode(t, w)["category"].(map[string]any)
	assert.Equal(t, "home-garden", cat["slug"])

	w = s.do(t, http.MethodGet, "/api/categories?parentId=null", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["categories"], 1)

	w = s.do(t, http.MethodGet, "/api/categories?parentId=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%v", cat["id"]), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestNotificationOwnership(t *testing.T) {
	s := setupRouter(t)
	owner, ownerToken := s.seedUser(t, "owner@example.com")
	_, otherToken := s.seedUser(t, "other@example.com")

	w := s.do(t, http.MethodPost, "/api/notifications", ownerToken, gin.H{
		"title": "Low stock", "message": "Lamp is running out", "userId": owner.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := fmt.Sprintf("/api/notifications/%v", decode(t, w)["notification"].(map[string]any)["id"])

	w = s.do(t, http.MethodPut, path, otherToken, gin.H{"isRead": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, ownerToken, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, path, ownerToken, gin.H{"isRead": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["notification"].(map[string]any)["isRead"])

	w = s.do(t, http.MethodGet, "/api/notifications", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["notifications"])
}

func TestSettings(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")

	w := s.do(t, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AdminHub Store", decode(t, w)["settings"].(map[string]any)["storeName"])

	w = s.do(t, http.MethodPut, "/api/settings", token, gin.H{"currency": "EURO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/settings", token, gin.H{"currency": "EUR"})
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "EUR", settings["currency"])
	assert.Equal(t, "AdminHub Store", settings["storeName"])
}

func TestEmployeesAndProfile(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")

	w := s.doForm(t, http.MethodPost, "/api/employees", token, map[string]string{
		"name": "Sam Lee", "email": "Sam@Example.com", "password": "long-enough", "department": "Sales",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp := decode(t, w)["employee"].(map[string]any)
	assert.Equal(t, "sam@example.com", emp["email"])
	assert.Equal(t, string(domain.RoleEmployee), emp["role"])
	assert.NotContains(t, emp, "password")

	w = s.doForm(t, http.MethodPost, "/api/employees", token, map[string]string{
		"name": "Sam Again", "email": "sam@example.com", "password": "long-enough",
	}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/employees?department=Sales", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["employees"], 1)

	w = s.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", decode(t, w)["user"].(map[string]any)["email"])

	w = s.do(t, http.MethodPut, "/api/profile/password", token, gin.H{
		"currentPassword": "wrong-pass", "newPassword": "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/profile/password", token, gin.H{
		"currentPassword": testPassword, "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboard(t *testing.T) {
	s := setupRouter(t)
	_, token := s.seedUser(t, "admin@example.com")
	s.seedProduct(t, "SKU-1", 3)

	w := s.do(t, http.MethodGet, "/api/dashboard?period=week", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w), "topProducts")

	w = s.do(t, http.MethodGet, "/api/dashboard?period=decade", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := httpapi.NewRateLimiter(ctx, 2, time.Minute)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(httpapi.CORS([]string{"http://localhost:3000/"}))
	r.GET("/api/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
