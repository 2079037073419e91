package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/ids"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/angelmondragon/storewise-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service answers questions about posted sales.
type Service interface {
	Recent(ctx context.Context, params pagination.Params) (*Page, error)
	Find(ctx context.Context, id string) (*models.Transaction, error)
	SalesOn(ctx context.Context, date string) (*DailySales, error)
	List(ctx context.Context) ([]models.Transaction, error)
	Between(ctx context.Context, from, to string) ([]models.Transaction, error)
}

// Page is a reverse-chronological slice of the ledger.
type Page struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// DailySales sums the totals posted on one date.
type DailySales struct {
	Date         string          `json:"date"`
	Transactions int             `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Recent(ctx context.Context, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.InvalidInput(err.Error())
	}
	var before int64
	if cursor != nil {
		before = cursor.Seq
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListBefore(ctx, before, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}

	page := &Page{Transactions: rows}
	if len(rows) > limit {
		page.Transactions = rows[:limit]
		last := page.Transactions[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{Seq: last.Seq, ID: last.ID})
	}
	return page, nil
}

func (s *service) Find(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(fmt.Sprintf("transaction %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}
	return txn, nil
}

func (s *service) SalesOn(ctx context.Context, date string) (*DailySales, error) {
	if !IsDate(date) {
		return nil, pkgerrors.InvalidInput(fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}
	txns, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions by date")
	}
	return &DailySales{Date: date, Transactions: len(txns), Total: SumTotals(txns)}, nil
}

func (s *service) List(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	return txns, nil
}

func (s *service) Between(ctx context.Context, from, to string) ([]models.Transaction, error) {
	if !IsDate(from) || !IsDate(to) {
		return nil, pkgerrors.InvalidInput("dates must be YYYY-MM-DD")
	}
	txns, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions by range")
	}
	return txns, nil
}

// SumTotals adds the posted totals of txns.
func SumTotals(txns []models.Transaction) decimal.Decimal {
	total := money.Zero
	for _, t := range txns {
		total = total.Add(t.Total)
	}
	return total
}

// Allocation is the identity reserved for the next posted sale.
type Allocation struct {
	ID  string
	Seq int64
}

// Allocate reserves the next transaction id and sequence. It must run on the
// same transaction as the Create that uses them.
func Allocate(ctx context.Context, repo Repository) (Allocation, error) {
	existing, err := repo.IDs(ctx)
	if err != nil {
		return Allocation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transaction ids")
	}
	id, _ := ids.Next(ids.TransactionPrefix, existing)

	seq, err := repo.MaxSeq(ctx)
	if err != nil {
		return Allocation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read ledger sequence")
	}
	return Allocation{ID: id, Seq: seq + 1}, nil
}

// Append validates and writes a posted transaction.
func Append(ctx context.Context, repo Repository, txn *models.Transaction) error {
	if err := Validate(txn); err != nil {
		return err
	}
	if err := repo.Create(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append transaction")
	}
	return nil
}

// Validate checks the shape of a transaction before it enters the ledger.
func Validate(txn *models.Transaction) error {
	if txn == nil {
		return pkgerrors.InvalidInput("transaction required")
	}
	if txn.ID == "" {
		return pkgerrors.InvalidInput("transaction id is required")
	}
	if !IsDate(txn.Date) {
		return pkgerrors.InvalidInput(fmt.Sprintf("transaction %s has invalid date %q", txn.ID, txn.Date))
	}
	if !IsClock(txn.Time) {
		return pkgerrors.InvalidInput(fmt.Sprintf("transaction %s has invalid time %q", txn.ID, txn.Time))
	}
	if !txn.PaymentMethod.IsValid() {
		return pkgerrors.InvalidInput(fmt.Sprintf("transaction %s has invalid payment method %q", txn.ID, txn.PaymentMethod))
	}
	for i, item := range txn.Items {
		if item.Quantity < 1 {
			return pkgerrors.InvalidInput(fmt.Sprintf("transaction %s line %d has quantity %d", txn.ID, i+1, item.Quantity))
		}
	}
	return nil
}
