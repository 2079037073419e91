package backup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/settings"
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// FileNamePrefix starts every export file name.
const FileNamePrefix = "storewise-backup-"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service moves the whole store in and out of backup documents.
type Service interface {
	Export(ctx context.Context, now time.Time) (*Export, error)
	Import(ctx context.Context, raw []byte, confirmed bool) (*Result, error)
	Restore(ctx context.Context, doc *snapshot.Document) (*Result, error)
}

// Export is a rendered backup file.
type Export struct {
	FileName string
	Document *snapshot.Document
	Body     []byte
}

// Result summarises what an import replaced.
type Result struct {
	Products        int  `json:"products"`
	Transactions    int  `json:"transactions"`
	Suppliers       int  `json:"suppliers"`
	SettingsUpdated bool `json:"settings_updated"`
}

// Repositories groups the stores a backup touches.
type Repositories struct {
	Products  *catalog.Repository
	Suppliers *catalog.SupplierRepository
	Ledger    ledger.Repository
	Settings  *settings.Repository
}

type service struct {
	repos Repositories
	tx    txRunner
	loc   *time.Location
	logg  *logger.Logger
}

// NewService wires the backup service. loc names the store's local day for
// export file names.
func NewService(repos Repositories, tx txRunner, loc *time.Location, logg *logger.Logger) (Service, error) {
	if repos.Products == nil || repos.Suppliers == nil || repos.Ledger == nil || repos.Settings == nil {
		return nil, fmt.Errorf("backup repositories required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repos: repos, tx: tx, loc: loc, logg: logg}, nil
}

// FileName is the download name for an export taken at now.
func FileName(now time.Time) string {
	return FileNamePrefix + now.Format(ledger.DateLayout) + ".json"
}

func (s *service) Export(ctx context.Context, now time.Time) (*Export, error) {
	local := now.In(s.loc)
	doc := &snapshot.Document{ExportDate: local.Format(time.RFC3339)}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		if doc.Products, err = s.repos.Products.WithTx(tx).List(ctx); err != nil {
			return err
		}
		if doc.Transactions, err = s.repos.Ledger.WithTx(tx).List(ctx); err != nil {
			return err
		}
		if doc.Suppliers, err = s.repos.Suppliers.WithTx(tx).List(ctx); err != nil {
			return err
		}
		current, err := s.repos.Settings.WithTx(tx).Get(ctx)
		if err != nil {
			return err
		}
		doc.Settings = snapshot.FullPatch(*current)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read store for export")
	}

	body, err := snapshot.Encode(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode export")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"products":     len(doc.Products),
		"transactions": len(doc.Transactions),
	}), "backup.exported")
	return &Export{FileName: FileName(local), Document: doc, Body: body}, nil
}

func (s *service) Import(ctx context.Context, raw []byte, confirmed bool) (*Result, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, pkgerrors.New(pkgerrors.CodeConfirmationRequired, "importing replaces all current data; confirm to continue")
	}
	return s.Restore(ctx, doc)
}

// Parse sniffs, decodes and validates a backup file without touching state.
func Parse(raw []byte) (*snapshot.Document, error) {
	if !isText(raw) {
		return nil, pkgerrors.ImportFormat(fmt.Errorf("content is %s", mimetype.Detect(raw).String()))
	}
	doc, err := snapshot.Decode(raw)
	if err != nil {
		return nil, pkgerrors.ImportFormat(err)
	}
	if err := Validate(doc); err != nil {
		return nil, pkgerrors.ImportFormat(err).WithDetails(Problems(err))
	}
	return doc, nil
}

func (s *service) Restore(ctx context.Context, doc *snapshot.Document) (*Result, error) {
	if doc == nil {
		return nil, pkgerrors.InvalidInput("document required")
	}
	doc.Normalize()
	if err := Validate(doc); err != nil {
		return nil, pkgerrors.ImportFormat(err).WithDetails(Problems(err))
	}
	for i := range doc.Products {
		if doc.Products[i].ImageURL == "" {
			doc.Products[i].ImageURL = doc.Products[i].Category.Glyph()
		}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repos.Products.WithTx(tx).ReplaceAll(ctx, doc.Products); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace products")
		}
		if err := s.repos.Ledger.WithTx(tx).ReplaceAll(ctx, doc.Transactions); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace transactions")
		}
		if err := s.repos.Suppliers.WithTx(tx).ReplaceAll(ctx, doc.Suppliers); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace suppliers")
		}
		if doc.Settings == nil {
			return nil
		}
		repo := s.repos.Settings.WithTx(tx)
		current, err := repo.Get(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
		}
		doc.Settings.Apply(current)
		if err := settings.Validate(current); err != nil {
			return pkgerrors.ImportFormat(err).WithDetails(pkgerrors.As(err).Details())
		}
		if err := repo.Save(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Products:        len(doc.Products),
		Transactions:    len(doc.Transactions),
		Suppliers:       len(doc.Suppliers),
		SettingsUpdated: doc.Settings != nil,
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"products":     result.Products,
		"transactions": result.Transactions,
		"suppliers":    result.Suppliers,
	}), "backup.restored")
	return result, nil
}

// isText reports whether raw is plain text. JSON is detected as a child of
// text/plain.
func isText(raw []byte) bool {
	for m := mimetype.Detect(raw); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
