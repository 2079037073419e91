package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelmondragon/storewise-backend/internal/backup"
	"github.com/angelmondragon/storewise-backend/internal/dashboard"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/seed"
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/angelmondragon/storewise-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/migrate"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/spf13/cobra"
)

var errInvalidBackup = errors.New("backup file is invalid")

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backup-tool",
		Short:         "Inspect and generate StoreWise backup files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(validateCmd(), summaryCmd(), seedCmd(), schemaCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "backup-tool %s\n", version)
		},
	})
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a backup file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readBackup(args[0])
			out := cmd.OutOrStdout()
			if err != nil {
				for _, problem := range problemsOf(err) {
					fmt.Fprintf(out, "  - %s\n", problem)
				}
				return err
			}
			fmt.Fprintf(out, "ok: %d products, %d transactions, %d suppliers\n",
				len(doc.Products), len(doc.Transactions), len(doc.Suppliers))
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE",
		Short: "Print inventory and sales totals for a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readBackup(args[0])
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the sample store as a seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := encodeSeed(format)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(outPath, body, 0o644); err != nil {
				return fmt.Errorf("write seed: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|yaml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Apply the embedded migrations to a scratch database and print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := schemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}

func readBackup(path string) (*snapshot.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup %q: %w", path, err)
	}
	doc, err := backup.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidBackup, err)
	}
	return doc, nil
}

func problemsOf(err error) []string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	if list, ok := typed.Details().([]string); ok {
		return list
	}
	return []string{typed.Error()}
}

func writeSummary(w io.Writer, doc *snapshot.Document) {
	settings := seed.DefaultSettings()
	doc.Settings.Apply(&settings)

	fmt.Fprintf(w, "store:        %s\n", settings.StoreName)
	fmt.Fprintf(w, "exported:     %s\n", orDash(doc.ExportDate))
	fmt.Fprintf(w, "products:     %d\n", len(doc.Products))
	fmt.Fprintf(w, "suppliers:    %d\n", len(doc.Suppliers))
	fmt.Fprintf(w, "transactions: %d\n", len(doc.Transactions))
	fmt.Fprintf(w, "inventory:    %s\n", money.Format(dashboard.InventoryValue(doc.Products), settings.Currency))
	fmt.Fprintf(w, "sales:        %s\n", money.Format(ledger.SumTotals(doc.Transactions), settings.Currency))

	alerts := dashboard.LowStockAlerts(doc.Products)
	fmt.Fprintf(w, "low stock:    %d\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(w, "  %s %s (%d/%d)\n", a.ProductID, a.Name, a.Stock, a.MinStock)
	}
}

func encodeSeed(format string) ([]byte, error) {
	doc := seed.Sample()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return snapshot.Encode(doc)
	case "yaml", "yml":
		return seed.EncodeYAML(doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func schemaVersion(ctx context.Context) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logg := logger.New(logger.Options{ServiceName: "backup-tool", Output: io.Discard})
	client, err := db.New(ctx, db.Options{Migrate: migrate.Up}, logg)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return 0, fmt.Errorf("sql database: %w", err)
	}
	return migrate.Version(ctx, sqlDB)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
