package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the GORM connection backing one store instance.
type Client struct {
	conn *gorm.DB
	name string
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Migrator prepares the schema of a freshly opened database.
type Migrator func(ctx context.Context, sqlDB *sql.DB) error

// Options tunes the in-memory database.
type Options struct {
	// Name identifies the database. A random name is used when empty so two
	// clients never share state.
	Name    string
	Migrate Migrator
}

// MemoryDSN builds the shared-cache DSN for a named in-memory database.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
}

// New opens an in-memory SQLite database, applies the schema, and pins the
// pool to a single connection. The single connection is the instance's write
// lock and keeps the in-memory database alive until Close.
func New(ctx context.Context, opts Options, logg *logger.Logger) (*Client, error) {
	name := opts.Name
	if name == "" {
		name = "storewise_" + uuid.NewString()
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	gormCfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(sqlite.Open(MemoryDSN(name)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}

	if opts.Migrate != nil {
		if err := opts.Migrate(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
	}

	applyPoolSettings(sqlDB)

	if logg != nil {
		logg.Info(logg.WithField(ctx, "db_name", name), "database connection established")
	}

	return &Client{conn: conn, name: name}, nil
}

func applyPoolSettings(sqlDB *sql.DB) {
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Name returns the in-memory database name.
func (c *Client) Name() string {
	return c.name
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close drops the connection, and with it the in-memory database.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a transaction, rolling back on error/panic.
// fn must only use tx: the pool holds a single connection.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
