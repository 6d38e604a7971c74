package http

import (
	"sync"

	"adminhub/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OrderItemRequest struct {
	ProductID uint64 `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type CreateOrderRequest struct {
	Customer        CustomerRequest         `json:"customer" binding:"required"`
	Items           []OrderItemRequest      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	Notes           string                  `json:"notes"`
}

type UpdateOrderRequest struct {
	Status        *domain.OrderStatus   `json:"status" binding:"omitempty,orderstatus"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus" binding:"omitempty,paymentstatus"`
}

type CreateTransactionRequest struct {
	Description  string                   `json:"description" binding:"required,max=500"`
	Amount       decimal.Decimal          `json:"amount"`
	Type         domain.TransactionType   `json:"type" binding:"required"`
	Status       domain.TransactionStatus `json:"status"`
	Account      string                   `json:"account" binding:"required"`
	RelatedTo    *uint64                  `json:"relatedTo"`
	RelatedModel *domain.RelatedModel     `json:"relatedModel"`
}

type CreateNotificationRequest struct {
	Title   string                  `json:"title" binding:"required,max=200"`
	Message string                  `json:"message" binding:"required"`
	UserID  uint64                  `json:"userId" binding:"required"`
	Type    domain.NotificationType `json:"type"`
	Link    string                  `json:"link"`
}

type MarkNotificationRequest struct {
	IsRead *bool `json:"isRead" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

var registerOnce sync.Once

// registerValidators adds the enum validators used by the binding tags
// above to gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			return domain.OrderStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("paymentstatus", func(fl validator.FieldLevel) bool {
			return domain.PaymentStatus(fl.Field().String()).Valid()
		})
	})
}
