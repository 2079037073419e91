package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/cart"
	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/metrics"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type cartSettler interface {
	Lines() []cart.Line
	Settle(fn func(lines []cart.Line) error) error
}

// Service drives the register's checkout session.
type Service interface {
	Status() Status
	Review(ctx context.Context) (*Quote, error)
	ProceedToPayment(ctx context.Context) (*PaymentPrompt, error)
	CompletePayment(ctx context.Context, input PaymentInput) (*Receipt, error)
	Cancel(ctx context.Context) (Status, error)
}

// Quote is shown while the cart is under review.
type Quote struct {
	Status
	Lines     []cart.Line `json:"items"`
	ItemCount int         `json:"item_count"`
	cart.Totals
}

// PaymentPrompt carries the amount to collect.
type PaymentPrompt struct {
	Status
	Total decimal.Decimal `json:"total"`
}

// PaymentInput is the operator's confirmation of payment.
type PaymentInput struct {
	PaymentMethod string
	CustomerName  string
}

// Receipt describes a posted sale.
type Receipt struct {
	Status
	Transaction  *models.Transaction   `json:"transaction"`
	StockChanges []catalog.StockChange `json:"stock_changes"`
	Skipped      []string              `json:"skipped_products,omitempty"`
}

// Options tunes posting behaviour.
type Options struct {
	Policy   enums.StockPolicy
	Location *time.Location
	Clock    func() time.Time
	Metrics  *metrics.StoreMetrics
}

type service struct {
	mu     sync.Mutex
	status Status

	cart     cartSettler
	settings settingsReader
	products *catalog.Repository
	ledger   ledger.Repository
	tx       txRunner

	policy  enums.StockPolicy
	loc     *time.Location
	clock   func() time.Time
	metrics *metrics.StoreMetrics
	logg    *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	c cartSettler,
	settings settingsReader,
	products *catalog.Repository,
	ledgerRepo ledger.Repository,
	logg *logger.Logger,
	opts Options,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if c == nil {
		return nil, fmt.Errorf("cart required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Policy == "" {
		opts.Policy = enums.StockPolicyReject
	}
	if !opts.Policy.IsValid() {
		return nil, fmt.Errorf("invalid stock policy %q", opts.Policy)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &service{
		status:   Status{State: enums.CheckoutStateIdle},
		cart:     c,
		settings: settings,
		products: products,
		ledger:   ledgerRepo,
		tx:       tx,
		policy:   opts.Policy,
		loc:      opts.Location,
		clock:    opts.Clock,
		metrics:  opts.Metrics,
		logg:     logg,
	}, nil
}

func (s *service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *service) Review(ctx context.Context) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !CanTransition(s.status.State, enums.CheckoutStateReviewingCart) {
		return nil, stateConflict("review the cart", s.status.State)
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.EmptyCart()
	}
	totals, err := s.totals(ctx, lines)
	if err != nil {
		return nil, err
	}

	s.status.State = enums.CheckoutStateReviewingCart
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return &Quote{Status: s.status, Lines: lines, ItemCount: count, Totals: totals.Rounded()}, nil
}

func (s *service) ProceedToPayment(ctx context.Context) (*PaymentPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State != enums.CheckoutStateReviewingCart {
		return nil, stateConflict("proceed to payment", s.status.State)
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.status.State = enums.CheckoutStateIdle
		return nil, pkgerrors.EmptyCart()
	}
	totals, err := s.totals(ctx, lines)
	if err != nil {
		return nil, err
	}

	s.status.State = enums.CheckoutStateAwaitingPaymentConfirmation
	return &PaymentPrompt{Status: s.status, Total: totals.Rounded().Total}, nil
}

func (s *service) Cancel(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status.State {
	case enums.CheckoutStateReviewingCart, enums.CheckoutStateAwaitingPaymentConfirmation:
		s.status.State = enums.CheckoutStateIdle
		s.logg.Debug(ctx, "checkout.cancelled")
		return s.status, nil
	default:
		return s.status, stateConflict("cancel", s.status.State)
	}
}

func (s *service) CompletePayment(ctx context.Context, input PaymentInput) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State != enums.CheckoutStateAwaitingPaymentConfirmation {
		return nil, stateConflict("complete payment", s.status.State)
	}
	method, err := enums.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(input.PaymentMethod)))
	if err != nil {
		return nil, pkgerrors.InvalidInput(err.Error())
	}
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var receipt *Receipt
	err = s.cart.Settle(func(lines []cart.Line) error {
		var postErr error
		receipt, postErr = s.post(ctx, lines, current.TaxRate, method, input.CustomerName)
		return postErr
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart) {
			s.status.State = enums.CheckoutStateIdle
		}
		outcome := metrics.OutcomeFailed
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			outcome = metrics.OutcomeRejected
		}
		s.metrics.ObserveCheckout(outcome, time.Since(started))
		return nil, err
	}

	s.status = Status{State: enums.CheckoutStatePosted, LastTransactionID: receipt.Transaction.ID}
	receipt.Status = s.status
	s.metrics.ObserveCheckout(metrics.OutcomePosted, time.Since(started))
	s.metrics.AddSale(receipt.Transaction.Total, receipt.Transaction.UnitsSold())
	return receipt, nil
}

// post writes the sale and its stock movements in one transaction.
func (s *service) post(ctx context.Context, lines []cart.Line, taxRate decimal.Decimal, method enums.PaymentMethod, customer string) (*Receipt, error) {
	totals := cart.ComputeTotals(lines, taxRate).Rounded()
	date, clock := ledger.Stamp(s.clock().In(s.loc))

	txn := &models.Transaction{
		Date:          date,
		Time:          clock,
		Items:         snapshotLines(lines),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: method,
		CustomerName:  customerName(customer),
	}
	receipt := &Receipt{Transaction: txn, StockChanges: []catalog.StockChange{}}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledgerRepo := s.ledger.WithTx(tx)
		products := s.products.WithTx(tx)

		alloc, err := ledger.Allocate(ctx, ledgerRepo)
		if err != nil {
			return err
		}
		txn.ID = alloc.ID
		txn.Seq = alloc.Seq
		txCtx := s.logg.WithTransactionID(ctx, txn.ID)

		var short []catalog.ShortLine
		for _, line := range lines {
			change, err := products.DecrementStock(txCtx, line.ProductID, line.Quantity, s.policy)
			switch {
			case err == nil:
				receipt.StockChanges = append(receipt.StockChanges, change)
				s.recordStockEvent(txCtx, change)
			case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
				s.logg.Warn(s.logg.WithProductID(txCtx, line.ProductID), "checkout.stock_skipped product no longer in catalog")
				s.metrics.IncStockEvent("skipped")
				receipt.Skipped = append(receipt.Skipped, line.ProductID)
			case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
				short = append(short, catalog.ShortLine{ProductID: line.ProductID, Requested: line.Quantity, Available: change.Before})
			default:
				return err
			}
		}
		if len(short) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").WithDetails(short)
		}

		return ledger.Append(txCtx, ledgerRepo, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithTransactionID(ctx, txn.ID), map[string]any{
		"total":          txn.Total.StringFixed(money.Places),
		"payment_method": txn.PaymentMethod.String(),
		"lines":          len(txn.Items),
	}), "checkout.posted")
	return receipt, nil
}

func (s *service) recordStockEvent(ctx context.Context, change catalog.StockChange) {
	switch {
	case change.Clamped:
		s.metrics.IncStockEvent("clamped")
	case change.Oversold:
		s.metrics.IncStockEvent("oversold")
		s.logg.Warn(s.logg.WithFields(s.logg.WithProductID(ctx, change.ProductID), map[string]any{
			"stock_after": change.After,
			"requested":   change.Requested,
		}), "checkout.oversold")
	}
}

func (s *service) totals(ctx context.Context, lines []cart.Line) (cart.Totals, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return cart.Totals{}, err
	}
	return cart.ComputeTotals(lines, current.TaxRate), nil
}

func snapshotLines(lines []cart.Line) []models.TransactionItem {
	items := make([]models.TransactionItem, len(lines))
	for i, l := range lines {
		items[i] = models.TransactionItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Name:      l.Name,
		}
	}
	return items
}

func customerName(raw string) *string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return nil
	}
	return &name
}
