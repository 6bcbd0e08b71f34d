package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// TxRepositories are bound to a single transaction.
type TxRepositories struct {
	Quotations QuotationRepository
	Catalog    CatalogRepository
}

// TxRunner executes a callback inside one database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

type pgTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds a TxRunner over the pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgTxRunner{pool: pool}
}

// WithinTx begins a transaction, runs fn with repositories bound to it and
// commits. Any error from fn rolls everything back.
func (r *pgTxRunner) WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := TxRepositories{
		Quotations: NewQuotationRepository(tx),
		Catalog:    NewCatalogRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// clauseBuilder accumulates SQL fragments whose values are always bound as
// $N parameters.
type clauseBuilder struct {
	parts []string
	args  []any
}

// bind appends v to the argument list and returns its placeholder.
func (b *clauseBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// add appends expr with every %s replaced by the placeholder for v.
func (b *clauseBuilder) add(expr string, v any) {
	ph := b.bind(v)
	b.parts = append(b.parts, strings.ReplaceAll(expr, "%s", ph))
}

func (b *clauseBuilder) empty() bool {
	return len(b.parts) == 0
}

// where renders the accumulated predicates, or an empty string.
func (b *clauseBuilder) where() string {
	if b.empty() {
		return ""
	}
	return " WHERE " + strings.Join(b.parts, " AND ")
}

// set renders the accumulated assignments for an UPDATE.
func (b *clauseBuilder) set() string {
	return strings.Join(b.parts, ", ")
}

// page appends bound LIMIT and OFFSET.
func (b *clauseBuilder) page(limit, offset int) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", b.bind(limit), b.bind(offset))
}
