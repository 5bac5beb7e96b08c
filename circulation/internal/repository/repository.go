package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConflict reports a conditional write whose guard no longer held: the row
// changed status, or a stock bound would be crossed.
var ErrConflict = errors.New("conditional update did not apply")

type Repository interface {
	// WithTx runs fn in one database transaction; the Repository passed to fn is
	// bound to it. Nested calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(r Repository) error) error

	GetBook(ctx context.Context, id string) (model.Book, error)
	LockBook(ctx context.Context, id string) error
	LockUser(ctx context.Context, email string) error
	CreateBook(ctx context.Context, book model.Book) error
	UpdateBook(ctx context.Context, book model.Book) error
	UpdateBookStock(ctx context.Context, id string, delta int) (model.Book, error)
	AdjustTotalStock(ctx context.Context, id string, totalDelta, availableDelta int) (model.Book, error)

	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	CreateTransaction(ctx context.Context, t model.Transaction) error
	SaveTransaction(ctx context.Context, t model.Transaction, expected model.TransactionStatus) error
	CountTransactions(ctx context.Context, f TransactionFilter) (int, error)
	QueryTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error)
	MarkReminderSent(ctx context.Context, id string, force bool, now time.Time) (bool, error)
	ResetReminder(ctx context.Context, id string, now time.Time) error

	GetHold(ctx context.Context, id string) (model.Hold, error)
	CreateHold(ctx context.Context, h model.Hold) error
	SaveHold(ctx context.Context, h model.Hold, expected model.HoldStatus) error
	QueryHolds(ctx context.Context, f HoldFilter) ([]model.Hold, error)
	MaxQueuePosition(ctx context.Context, bookID string) (int, error)
	ShiftQueue(ctx context.Context, bookID string, after int) error
}

type dialect uint8

const (
	dialectPostgres dialect = iota + 1
	dialectSQLite
)

type repository struct {
	db      sqlx.ExtContext
	root    *sqlx.DB
	tx      *sqlx.Tx
	qb      sq.StatementBuilderType
	dialect dialect
	log     *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	r := &repository{
		db:   db,
		root: db,
		log:  log.Named("repo"),
	}
	switch db.DriverName() {
	case "pgx", "postgres":
		r.dialect = dialectPostgres
		r.qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	case "sqlite", "sqlite3":
		r.dialect = dialectSQLite
		r.qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	default:
		return nil, errors.Errorf("unsupported driver %q", db.DriverName())
	}
	return r, nil
}

const (
	booksTableName        = `books`
	transactionsTableName = `transactions`
	holdsTableName        = `holds`
)

func (r *repository) WithTx(ctx context.Context, fn func(r Repository) error) (err error) {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.root.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txRepo := &repository{
		db:      tx,
		root:    r.root,
		tx:      tx,
		qb:      r.qb,
		dialect: r.dialect,
		log:     r.log,
	}
	if err = fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("tx rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

func (r *repository) get(ctx context.Context, dest any, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if err = sqlx.GetContext(ctx, r.db, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		r.log.Error("get", zap.String("q", q), zap.Any("args", args), zap.Error(err))
		return err
	}
	return nil
}

func (r *repository) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
