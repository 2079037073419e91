package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"gorm.io/gorm"
)

// StockChange describes one applied decrement.
type StockChange struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	Clamped   bool   `json:"clamped"`
	Oversold  bool   `json:"oversold"`
}

// ShortLine is reported when a decrement is rejected.
type ShortLine struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ApplyDecrement computes the stock level after selling qty units.
func ApplyDecrement(stock, qty int, policy enums.StockPolicy) (int, StockChange, error) {
	change := StockChange{Requested: qty, Before: stock}
	if qty < 0 {
		return stock, change, pkgerrors.InvalidInput("quantity must be non-negative")
	}

	after := stock - qty
	if after < 0 {
		switch policy {
		case enums.StockPolicyClamp:
			after = 0
			change.Clamped = true
		case enums.StockPolicyAllow:
			change.Oversold = true
		default:
			return stock, change, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
		}
	}
	change.After = after
	return after, change, nil
}

// DecrementStock reduces a product's stock under policy. It is meant to run on
// a transaction-bound repository; missing products surface as NotFound.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int, policy enums.StockPolicy) (StockChange, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockChange{ProductID: id, Requested: qty}, pkgerrors.NotFound(fmt.Sprintf("product %s not found", id))
		}
		return StockChange{ProductID: id, Requested: qty}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product for stock update")
	}

	after, change, err := ApplyDecrement(product.Stock, qty, policy)
	change.ProductID = id
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			return change, typed.WithDetails(ShortLine{ProductID: id, Requested: qty, Available: product.Stock})
		}
		return change, err
	}

	if err := r.SetStock(ctx, id, after); err != nil {
		return change, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update stock")
	}
	return change, nil
}
