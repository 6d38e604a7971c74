package http

import (
	"net/http"
	"strconv"
	"strings"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/logger"
	"adminhub/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Auth          *services.AuthService
	Orders        *services.OrderService
	Catalog       *services.CatalogService
	Categories    *services.CategoryService
	Ledger        *services.LedgerService
	Notifications *services.NotificationService
	Settings      *services.SettingsService
	Employees     *services.EmployeeService
	Dashboard     *services.DashboardService
}

type Handler struct {
	svc Services
	log *zap.Logger
}

func NewHandler(svc Services, log *zap.Logger) *Handler {
	registerValidators()
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the API under /api. Reads of the catalog and the
// order book are public; everything else needs a bearer token.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.GET("/transactions", h.ListTransactions)

	authed := api.Group("", RequireAuth(h.svc.Auth))
	authed.POST("/products", h.CreateProduct)
	authed.PUT("/products/:id", h.UpdateProduct)
	authed.DELETE("/products/:id", h.DeleteProduct)

	authed.POST("/categories", h.CreateCategory)
	authed.PUT("/categories/:id", h.UpdateCategory)
	authed.DELETE("/categories/:id", h.DeleteCategory)

	authed.POST("/orders", h.CreateOrder)
	authed.PUT("/orders/:id", h.UpdateOrder)

	authed.POST("/transactions", h.CreateTransaction)

	authed.GET("/notifications", h.ListNotifications)
	authed.POST("/notifications", h.CreateNotification)
	authed.PUT("/notifications/:id", h.MarkNotification)
	authed.DELETE("/notifications/:id", h.DeleteNotification)

	authed.GET("/settings", h.GetSettings)
	authed.PUT("/settings", h.UpdateSettings)

	authed.GET("/employees", h.ListEmployees)
	authed.POST("/employees", h.CreateEmployee)
	authed.GET("/employees/:id", h.GetEmployee)
	authed.PUT("/employees/:id", h.UpdateEmployee)
	authed.DELETE("/employees/:id", h.DeleteEmployee)

	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.PUT("/profile/password", h.ChangePassword)

	authed.GET("/dashboard", h.GetDashboard)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError writes {"error": message} with the status of the error kind.
// Internal failures are logged with their cause and reported generically.
func (h *Handler) respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindUpstream {
		logger.For(c.Request.Context(), h.log).Error("request failed",
			zap.String("path", c.FullPath()), zap.String("kind", string(ae.Kind)), zap.Error(err))
	}
	c.JSON(ae.StatusCode(), gin.H{"error": ae.Message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryUint(c *gin.Context, key string) (uint64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errInvalid(key)
	}
	return v, nil
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.svc.Orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		Customer:        domain.Customer{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone},
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListOrders(c.Request.Context(), domain.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Search: c.Query("search"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.svc.Orders.UpdateOrderStatus(c.Request.Context(), id, req.Status, req.PaymentStatus)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	txs, err := h.svc.Ledger.ListTransactions(c.Request.Context(), domain.TransactionFilter{
		Type:   domain.TransactionType(c.Query("type")),
		Status: domain.TransactionStatus(c.Query("status")),
		Search: c.Query("search"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := h.svc.Ledger.CreateTransaction(c.Request.Context(), services.TransactionInput{
		Description:  req.Description,
		Amount:       req.Amount,
		Type:         req.Type,
		Status:       req.Status,
		Account:      req.Account,
		RelatedTo:    req.RelatedTo,
		RelatedModel: req.RelatedModel,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.svc.Dashboard.GetDashboard(c.Request.Context(), domain.Period(c.Query("period")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
