package services

import (
	"context"
	"strings"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/logger"
	"adminhub/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransactionInput struct {
	Description  string
	Amount       decimal.Decimal
	Type         domain.TransactionType
	Status       domain.TransactionStatus
	Account      string
	RelatedTo    *uint64
	RelatedModel *domain.RelatedModel
}

// LedgerService records manual ledger entries. Order transitions never
// write to the ledger.
type LedgerService struct {
	store repository.Store
	log   *zap.Logger
}

func NewLedgerService(store repository.Store, log *zap.Logger) *LedgerService {
	return &LedgerService{store: store, log: log}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	if strings.TrimSpace(in.Description) == "" || in.Amount.IsZero() || in.Type == "" || strings.TrimSpace(in.Account) == "" {
		return nil, apperr.Validation("Missing required fields")
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("Invalid transaction type: %s", in.Type)
	}
	if in.Status == "" {
		in.Status = domain.TxCompleted
	}
	if !in.Status.Valid() {
		return nil, apperr.Validation("Invalid transaction status: %s", in.Status)
	}
	if in.RelatedModel != nil && !in.RelatedModel.Valid() {
		return nil, apperr.Validation("Invalid related model: %s", *in.RelatedModel)
	}
	if (in.RelatedTo == nil) != (in.RelatedModel == nil) {
		return nil, apperr.Validation("relatedTo and relatedModel must be provided together")
	}

	t := &domain.Transaction{
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Type:         in.Type,
		Status:       in.Status,
		Account:      strings.TrimSpace(in.Account),
		RelatedTo:    in.RelatedTo,
		RelatedModel: in.RelatedModel,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		n, err := r.Sequences.Next(ctx, domain.SeqTransactions)
		if err != nil {
			return apperr.Internal("failed to allocate transaction id", err)
		}
		t.TransactionID = domain.TransactionID(n)
		if err := r.Transactions.Create(ctx, t); err != nil {
			return apperr.Internal("Failed to create transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.log).Info("transaction recorded",
		zap.String("transaction_id", t.TransactionID),
		zap.String("type", string(t.Type)),
		zap.String("amount", t.Amount.StringFixed(2)),
	)
	return t, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation("Invalid transaction type: %s", f.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid transaction status: %s", f.Status)
	}
	out, err := s.store.Repos().Transactions.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch transactions", err)
	}
	if out == nil {
		out = []domain.Transaction{}
	}
	return out, nil
}
