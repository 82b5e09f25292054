// Package client provides the warehouse connection capability and error mapping
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// ConnectionProvider hands out a fresh Connection per lifecycle call
type ConnectionProvider interface {
	Get(ctx context.Context) (Connection, error)
}

// Connection is a single warehouse session
type Connection interface {
	Cursor() Cursor
	Close() error
}

// Cursor executes statements on its Connection
type Cursor interface {
	// Execute runs one statement; bindings are passed as positional parameters
	Execute(ctx context.Context, statement string, bindings ...any) error
	Close() error
}

// ExecutionError wraps a failure raised by the warehouse while executing a statement.
// Statement holds the statement text only; bindings are never recorded.
type ExecutionError struct {
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute SQL: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// OpenFunc opens a database handle for one connection
type OpenFunc func(ctx context.Context) (*sql.DB, error)

// SQLConnectionProvider opens a new database/sql handle on every Get and pins a single
// *sql.Conn to it. Nothing is pooled or cached between calls.
type SQLConnectionProvider struct {
	open OpenFunc
}

// NewSQLConnectionProvider creates a provider for a registered database/sql driver
func NewSQLConnectionProvider(driverName, dsn string) (*SQLConnectionProvider, error) {
	if driverName == "" {
		return nil, fmt.Errorf("driver name is required")
	}
	if dsn == "" {
		return nil, fmt.Errorf("DSN is required")
	}

	return NewSQLConnectionProviderFunc(func(ctx context.Context) (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	}), nil
}

// NewSQLConnectionProviderFunc creates a provider around a custom open function
func NewSQLConnectionProviderFunc(open OpenFunc) *SQLConnectionProvider {
	return &SQLConnectionProvider{open: open}
}

// Get opens a database handle and acquires one connection from it
func (p *SQLConnectionProvider) Get(ctx context.Context) (Connection, error) {
	db, err := p.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	tflog.Trace(ctx, "Acquired warehouse connection")

	return &sqlConnection{db: db, conn: conn}, nil
}

type sqlConnection struct {
	db   *sql.DB
	conn *sql.Conn

	closeOnce sync.Once
	closeErr  error
}

func (c *sqlConnection) Cursor() Cursor {
	return &sqlCursor{conn: c.conn}
}

func (c *sqlConnection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = errors.Join(c.conn.Close(), c.db.Close())
	})
	return c.closeErr
}

type sqlCursor struct {
	conn   *sql.Conn
	closed bool
}

func (c *sqlCursor) Execute(ctx context.Context, statement string, bindings ...any) error {
	if c.closed {
		return fmt.Errorf("cursor is closed")
	}

	var err error
	if len(bindings) > 0 {
		_, err = c.conn.ExecContext(ctx, statement, bindings...)
	} else {
		_, err = c.conn.ExecContext(ctx, statement)
	}
	if err != nil {
		return &ExecutionError{Statement: statement, Err: err}
	}
	return nil
}

func (c *sqlCursor) Close() error {
	c.closed = true
	return nil
}
