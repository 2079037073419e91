package ledger

import (
	"context"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists posted transactions. There is no update or delete path
// apart from a wholesale restore.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	ListBefore(ctx context.Context, beforeSeq int64, limit int) ([]models.Transaction, error)
	ListByDate(ctx context.Context, date string) ([]models.Transaction, error)
	ListByDateRange(ctx context.Context, from, to string) ([]models.Transaction, error)
	IDs(ctx context.Context) ([]string, error)
	MaxSeq(ctx context.Context) (int64, error)
	ReplaceAll(ctx context.Context, txns []models.Transaction) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no ASC")
	})
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	for i := range txn.Items {
		txn.Items[i].LineNo = i + 1
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.withItems(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) List(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.withItems(ctx).Order("seq ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// ListBefore returns up to limit transactions older than beforeSeq, newest
// first. A zero beforeSeq starts from the latest transaction.
func (r *repository) ListBefore(ctx context.Context, beforeSeq int64, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	query := r.withItems(ctx).Order("seq DESC").Limit(limit)
	if beforeSeq > 0 {
		query = query.Where("seq < ?", beforeSeq)
	}
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) ListByDate(ctx context.Context, date string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.withItems(ctx).Where("date = ?", date).Order("seq ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// ListByDateRange returns transactions dated within [from, to], both inclusive.
// ISO dates compare correctly as text.
func (r *repository) ListByDateRange(ctx context.Context, from, to string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.withItems(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("seq ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) MaxSeq(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// ReplaceAll swaps the ledger for txns, renumbering sequence and lines in
// slice order.
func (r *repository) ReplaceAll(ctx context.Context, txns []models.Transaction) error {
	db := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.Delete(&models.TransactionItem{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Transaction{}).Error; err != nil {
		return err
	}
	for i := range txns {
		row := txns[i]
		row.Seq = int64(i + 1)
		row.Items = make([]models.TransactionItem, len(txns[i].Items))
		for j, item := range txns[i].Items {
			item.ID = 0
			item.TransactionID = row.ID
			item.LineNo = j + 1
			row.Items[j] = item
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
