package backup

import (
	"fmt"

	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var validate = validation.New()

// Validate checks every record of doc. All problems are reported together.
func Validate(doc *snapshot.Document) error {
	var errs error

	productIDs := map[string]struct{}{}
	barcodes := map[string]string{}
	for i := range doc.Products {
		p := &doc.Products[i]
		where := fmt.Sprintf("products[%d]", i)
		errs = multierr.Append(errs, structErrors(where, p))
		if err := catalog.ValidateProduct(p); err != nil {
			errs = multierr.Append(errs, detailErrors(where, err))
		}
		if p.ID != "" {
			if _, dup := productIDs[p.ID]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id %s", where, p.ID))
			}
			productIDs[p.ID] = struct{}{}
		}
		if p.Barcode != "" {
			if owner, dup := barcodes[p.Barcode]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s: barcode %s already used by %s", where, p.Barcode, owner))
			}
			barcodes[p.Barcode] = p.ID
		}
	}

	txnIDs := map[string]struct{}{}
	for i := range doc.Transactions {
		t := &doc.Transactions[i]
		where := fmt.Sprintf("transactions[%d]", i)
		errs = multierr.Append(errs, structErrors(where, t))
		if t.ID != "" {
			if _, dup := txnIDs[t.ID]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id %s", where, t.ID))
			}
			txnIDs[t.ID] = struct{}{}
		}
	}

	supplierIDs := map[string]struct{}{}
	for i := range doc.Suppliers {
		s := &doc.Suppliers[i]
		where := fmt.Sprintf("suppliers[%d]", i)
		errs = multierr.Append(errs, structErrors(where, s))
		if s.ID != "" {
			if _, dup := supplierIDs[s.ID]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s: duplicate id %s", where, s.ID))
			}
			supplierIDs[s.ID] = struct{}{}
		}
	}

	return errs
}

// Problems lists the individual messages inside a Validate error.
func Problems(err error) []string {
	list := multierr.Errors(err)
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Error()
	}
	return out
}

func structErrors(where string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%s: %w", where, err)
	}
	var errs error
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		for i := 0; i < len(field); i++ {
			if field[i] == '.' {
				field = field[i+1:]
				break
			}
		}
		errs = multierr.Append(errs, fmt.Errorf("%s.%s %s", where, field, validation.Message(fe)))
	}
	return errs
}

func detailErrors(where string, err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || len(details) == 0 {
		return fmt.Errorf("%s: %s", where, typed.Message())
	}
	var errs error
	for _, key := range sortedKeys(details) {
		errs = multierr.Append(errs, fmt.Errorf("%s.%s: %s", where, key, details[key]))
	}
	return errs
}
