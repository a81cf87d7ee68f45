package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/repository/builder"
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the connection string understood by lib/pq.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgresDB opens a pooled connection and checks it with a ping.
func NewPostgresDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const (
	postgresBackend = "postgres"
	recordTable     = "employee_record"
	// 6 columns per row keeps a batch well under the 65535 parameter limit.
	insertBatchSize = 1000
)

var recordColumns = []string{"id", "name", "department", "salary", "kind", "factor"}

// PostgresSnapshotter keeps the company snapshot in the employee_record table.
type PostgresSnapshotter struct {
	db    *sql.DB
	table string
}

// NewPostgresSnapshotter creates the snapshotter and makes sure its table exists.
func NewPostgresSnapshotter(ctx context.Context, db *sql.DB) (*PostgresSnapshotter, error) {
	s := &PostgresSnapshotter{db: db, table: pq.QuoteIdentifier(recordTable)}
	if _, err := db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return nil, domain.NewPersistenceError(postgresBackend, "migrate", err)
	}
	return s, nil
}

func (s *PostgresSnapshotter) createTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		salary     DOUBLE PRECISION NOT NULL,
		kind       TEXT NOT NULL,
		factor     DOUBLE PRECISION NOT NULL DEFAULT 0
	)`
}

// Save replaces the table contents in a single transaction.
func (s *PostgresSnapshotter) Save(ctx context.Context, records []domain.Descriptor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError(postgresBackend, "save", err)
	}
	defer tx.Rollback()

	query, args := builder.NewSQLBuilder().Delete(s.table).Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.NewPersistenceError(postgresBackend, "save", err)
	}

	for _, batch := range insertBatches(s.table, records) {
		query, args := batch.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return domain.NewPersistenceError(postgresBackend, "save", describePQError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewPersistenceError(postgresBackend, "save", err)
	}
	return nil
}

func insertBatches(table string, records []domain.Descriptor) []*builder.SQLBuilder {
	var batches []*builder.SQLBuilder
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		b := builder.NewSQLBuilder().Insert(table, recordColumns...)
		for _, d := range records[start:end] {
			b.Values(d.ID, d.Name, d.Department, d.Salary, string(d.Kind), d.Factor)
		}
		batches = append(batches, b)
	}
	return batches
}

// Load reads every row ordered by id.
func (s *PostgresSnapshotter) Load(ctx context.Context) ([]domain.Descriptor, error) {
	query, args := builder.NewSQLBuilder().
		Select(recordColumns...).
		From(s.table).
		OrderBy("id ASC").
		Build()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewPersistenceError(postgresBackend, "load", err)
	}
	defer rows.Close()

	var records []domain.Descriptor
	for rows.Next() {
		var d domain.Descriptor
		var kind string
		if err := rows.Scan(&d.ID, &d.Name, &d.Department, &d.Salary, &kind, &d.Factor); err != nil {
			return nil, domain.NewPersistenceError(postgresBackend, "load", fmt.Errorf("failed to scan employee record: %w", err))
		}
		d.Kind = domain.Kind(kind)
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewPersistenceError(postgresBackend, "load", fmt.Errorf("row iteration error: %w", err))
	}
	return records, nil
}

// describePQError adds the SQLSTATE code name to server-side errors.
func describePQError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("%s (%s): %w", pqErr.Code.Name(), pqErr.Code, err)
	}
	return err
}
