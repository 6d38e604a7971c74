package services

import (
	"context"
	"errors"
	"strconv"

	"adminhub/internal/apperr"
	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

// InventoryReconciler keeps product stock consistent with order line items.
// Every method runs against the product repository it is given, so the
// caller decides the transaction boundary; on error the caller must roll
// back.
type InventoryReconciler struct{}

// Reserve takes stock for a new order.
func (InventoryReconciler) Reserve(ctx context.Context, products repository.ProductRepository, lines []domain.StockLine) ([]domain.Product, error) {
	return adjustAll(ctx, products, lines, -1)
}

// Release gives stock back when an order moves into Cancelled. It cannot
// fail for lack of stock.
func (InventoryReconciler) Release(ctx context.Context, products repository.ProductRepository, lines []domain.StockLine) ([]domain.Product, error) {
	return adjustAll(ctx, products, lines, 1)
}

// Consume takes stock again when an order leaves Cancelled.
func (InventoryReconciler) Consume(ctx context.Context, products repository.ProductRepository, lines []domain.StockLine) ([]domain.Product, error) {
	return adjustAll(ctx, products, lines, -1)
}

// Apply runs whatever a status transition requires.
func (r InventoryReconciler) Apply(ctx context.Context, products repository.ProductRepository, effect domain.StockEffect, lines []domain.StockLine) ([]domain.Product, error) {
	switch effect {
	case domain.EffectRelease:
		return r.Release(ctx, products, lines)
	case domain.EffectConsume:
		return r.Consume(ctx, products, lines)
	}
	return nil, nil
}

func adjustAll(ctx context.Context, products repository.ProductRepository, lines []domain.StockLine, sign int) ([]domain.Product, error) {
	touched := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		p, err := products.AdjustStock(ctx, line.ProductID, sign*line.Quantity)
		switch {
		case err == nil:
			touched = append(touched, *p)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("Product with ID %d not found", line.ProductID)
		case errors.Is(err, repository.ErrInsufficientStock):
			name := productName(ctx, products, line.ProductID)
			return nil, apperr.InsufficientStock("Insufficient stock for product: %s", name)
		default:
			return nil, apperr.Internal("failed to update stock", err)
		}
	}
	return touched, nil
}

func productName(ctx context.Context, products repository.ProductRepository, id uint64) string {
	p, err := products.FindByID(ctx, id)
	if err != nil {
		return "#" + strconv.FormatUint(id, 10)
	}
	return p.Name
}
