// Package storetest opens migrated in-memory stores for package tests.
package storetest

import (
	"context"
	"testing"

	"github.com/angelmondragon/storewise-backend/internal/seed"
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/angelmondragon/storewise-backend/pkg/db"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/migrate"
	"gorm.io/gorm"
)

// NewClient returns an empty, migrated database closed at test cleanup.
func NewClient(t testing.TB) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), db.Options{Migrate: migrate.Up}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// NewSampleClient returns a database holding the demo store.
func NewSampleClient(t testing.TB) *db.Client {
	t.Helper()
	client := NewClient(t)
	Load(t, client.DB(), seed.Sample())
	return client
}

// Load writes doc straight into the tables, bypassing services.
func Load(t testing.TB, conn *gorm.DB, doc *snapshot.Document) {
	t.Helper()
	doc.Normalize()
	for i := range doc.Products {
		p := doc.Products[i]
		p.Position = int64(i + 1)
		if err := conn.Create(&p).Error; err != nil {
			t.Fatalf("seed product %s: %v", p.ID, err)
		}
	}
	for i := range doc.Suppliers {
		s := doc.Suppliers[i]
		s.Position = int64(i + 1)
		if err := conn.Create(&s).Error; err != nil {
			t.Fatalf("seed supplier %s: %v", s.ID, err)
		}
	}
	for i := range doc.Transactions {
		tx := doc.Transactions[i]
		tx.Seq = int64(i + 1)
		items := make([]models.TransactionItem, len(tx.Items))
		for j, item := range tx.Items {
			item.LineNo = j + 1
			items[j] = item
		}
		tx.Items = items
		if err := conn.Create(&tx).Error; err != nil {
			t.Fatalf("seed transaction %s: %v", tx.ID, err)
		}
	}
	if doc.Settings != nil {
		var current models.Settings
		if err := conn.First(&current, models.SettingsID).Error; err != nil {
			t.Fatalf("load settings: %v", err)
		}
		doc.Settings.Apply(&current)
		if err := conn.Save(&current).Error; err != nil {
			t.Fatalf("seed settings: %v", err)
		}
	}
}
