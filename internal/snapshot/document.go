// Package snapshot defines the whole-store document used by backups and seed
// files.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Document is the backup file layout.
type Document struct {
	Products     []models.Product     `json:"products"`
	Transactions []models.Transaction `json:"transactions"`
	Suppliers    []models.Supplier    `json:"suppliers"`
	Settings     *SettingsPatch       `json:"settings"`
	ExportDate   string               `json:"exportDate,omitempty"`
}

// SettingsPatch carries only the settings keys present in a document.
type SettingsPatch struct {
	StoreName         *string          `json:"store_name,omitempty"`
	Address           *string          `json:"address,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	TaxRate           *decimal.Decimal `json:"tax_rate,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
}

// FullPatch expresses every field of s as a patch.
func FullPatch(s models.Settings) *SettingsPatch {
	return &SettingsPatch{
		StoreName:         &s.StoreName,
		Address:           &s.Address,
		Phone:             &s.Phone,
		TaxRate:           &s.TaxRate,
		Currency:          &s.Currency,
		LowStockThreshold: &s.LowStockThreshold,
	}
}

// Apply shallow-merges the present keys of p onto s.
func (p *SettingsPatch) Apply(s *models.Settings) {
	if p == nil || s == nil {
		return
	}
	if p.StoreName != nil {
		s.StoreName = *p.StoreName
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.TaxRate != nil {
		s.TaxRate = *p.TaxRate
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.LowStockThreshold != nil {
		s.LowStockThreshold = *p.LowStockThreshold
	}
}

// Normalize replaces missing arrays with empty ones.
func (d *Document) Normalize() {
	if d.Products == nil {
		d.Products = []models.Product{}
	}
	if d.Transactions == nil {
		d.Transactions = []models.Transaction{}
	}
	if d.Suppliers == nil {
		d.Suppliers = []models.Supplier{}
	}
	for i := range d.Transactions {
		if d.Transactions[i].Items == nil {
			d.Transactions[i].Items = []models.TransactionItem{}
		}
	}
}

// Decode parses raw JSON into a Document. Unknown keys are tolerated so files
// written by older releases still load.
func Decode(raw []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("document must be a JSON object")
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Encode renders the document as two-space indented JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document required")
	}
	doc.Normalize()
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}
