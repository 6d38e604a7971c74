package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxCredit TransactionType = "Credit"
	TxDebit  TransactionType = "Debit"
)

func (t TransactionType) Valid() bool {
	return t == TxCredit || t == TxDebit
}

type TransactionStatus string

const (
	TxCompleted TransactionStatus = "Completed"
	TxPending   TransactionStatus = "Pending"
	TxFailed    TransactionStatus = "Failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxCompleted, TxPending, TxFailed:
		return true
	}
	return false
}

type RelatedModel string

const (
	RelatedOrder   RelatedModel = "Order"
	RelatedUser    RelatedModel = "User"
	RelatedProduct RelatedModel = "Product"
)

func (m RelatedModel) Valid() bool {
	switch m {
	case RelatedOrder, RelatedUser, RelatedProduct:
		return true
	}
	return false
}

// Transaction is a ledger entry. It is never written as a side effect of
// an order transition.
type Transaction struct {
	ID            uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	TransactionID string            `json:"transactionId" gorm:"size:32;not null;uniqueIndex"`
	Description   string            `json:"description" gorm:"size:500;not null"`
	Amount        decimal.Decimal   `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type          TransactionType   `json:"type" gorm:"size:8;not null;index"`
	Status        TransactionStatus `json:"status" gorm:"size:16;not null;index"`
	Account       string            `json:"account" gorm:"size:120;not null"`
	RelatedTo     *uint64           `json:"relatedTo,omitempty"`
	RelatedModel  *RelatedModel     `json:"relatedModel,omitempty" gorm:"size:16"`
	CreatedAt     time.Time         `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time         `json:"updatedAt" gorm:"autoUpdateTime"`
}

type TransactionFilter struct {
	Type   TransactionType
	Status TransactionStatus
	Search string
}
