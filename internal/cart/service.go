package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
)

// Service drives the register cart.
type Service interface {
	Add(ctx context.Context, productID string, qty int) (*View, error)
	SetQuantity(ctx context.Context, index, qty int) (*View, error)
	AdjustQuantity(ctx context.Context, index, delta int) (*View, error)
	Remove(ctx context.Context, index int) (*View, error)
	Clear(ctx context.Context) (*View, error)
	View(ctx context.Context) (*View, error)
	Cart() *Cart
}

// View is the cart as the register shows it, with rounded totals.
type View struct {
	Lines     []Line `json:"items"`
	ItemCount int    `json:"item_count"`
	Totals
}

type service struct {
	cart     *Cart
	products productFinder
	settings settingsReader
	logg     *logger.Logger
}

// NewService wires the cart against the catalog and store settings.
func NewService(products productFinder, settings settingsReader, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{cart: &Cart{}, products: products, settings: settings, logg: logg}, nil
}

func (s *service) Cart() *Cart {
	return s.cart
}

func (s *service) Add(ctx context.Context, productID string, qty int) (*View, error) {
	if qty < 1 {
		return nil, pkgerrors.InvalidInput("quantity must be at least 1")
	}
	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.cart.Add(product.ID, product.Name, product.Price, qty); err != nil {
		return nil, err
	}
	s.logg.Debug(s.logg.WithProductID(ctx, product.ID), fmt.Sprintf("cart.add qty=%d", qty))
	return s.View(ctx)
}

func (s *service) SetQuantity(ctx context.Context, index, qty int) (*View, error) {
	if err := s.cart.SetQuantity(index, qty); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

func (s *service) AdjustQuantity(ctx context.Context, index, delta int) (*View, error) {
	if err := s.cart.AdjustQuantity(index, delta); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

func (s *service) Remove(ctx context.Context, index int) (*View, error) {
	if err := s.cart.Remove(index); err != nil {
		return nil, err
	}
	return s.View(ctx)
}

func (s *service) Clear(ctx context.Context) (*View, error) {
	s.cart.Clear()
	s.logg.Debug(ctx, "cart.cleared")
	return s.View(ctx)
}

func (s *service) View(ctx context.Context) (*View, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	lines := s.cart.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return &View{
		Lines:     lines,
		ItemCount: count,
		Totals:    ComputeTotals(lines, current.TaxRate).Rounded(),
	}, nil
}
