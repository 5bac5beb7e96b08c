package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var bookColumns = []string{"id", "title", "total_stock", "available_stock", "archived", "updated_at"}

func (r *repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	var book model.Book
	err := r.get(ctx, &book, r.qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return model.Book{}, errors.Wrapf(err, "book %s", id)
	}
	return book, nil
}

// LockBook takes the row lock that serializes all writers of one title across
// service replicas. SQLite already admits a single writer.
func (r *repository) LockBook(ctx context.Context, id string) error {
	b := r.qb.Select("id").From(booksTableName).Where(sq.Eq{"id": id})
	if r.dialect == dialectPostgres {
		b = b.Suffix("FOR UPDATE")
	}
	var locked string
	if err := r.get(ctx, &locked, b); err != nil {
		return errors.Wrapf(err, "lock book %s", id)
	}
	return nil
}

const userLockQuery = `SELECT 1 FROM (SELECT pg_advisory_xact_lock(hashtext($1))) AS l`

// LockUser serializes a user's borrow-limit checks across replicas until the
// surrounding transaction ends. Outside WithTx the lock is released at once.
func (r *repository) LockUser(ctx context.Context, email string) error {
	if r.dialect != dialectPostgres {
		return nil
	}
	var one int
	if err := sqlx.GetContext(ctx, r.db, &one, userLockQuery, "user:"+email); err != nil {
		return errors.Wrapf(err, "lock user %s", email)
	}
	return nil
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) error {
	_, err := r.exec(ctx, r.qb.Insert(booksTableName).
		Columns(bookColumns...).
		Values(book.ID, book.Title, book.TotalStock, book.AvailableStock, book.Archived, book.UpdatedAt.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.ErrDuplicateRequest, "book %s exists", book.ID)
		}
		return errors.Wrap(err, "CreateBook")
	}
	return nil
}

// UpdateBook writes catalog metadata only; stock goes through UpdateBookStock.
func (r *repository) UpdateBook(ctx context.Context, book model.Book) error {
	n, err := r.exec(ctx, r.qb.Update(booksTableName).
		Set("title", book.Title).
		Set("archived", book.Archived).
		Set("updated_at", book.UpdatedAt.UTC()).
		Where(sq.Eq{"id": book.ID}))
	if err != nil {
		return errors.Wrap(err, "UpdateBook")
	}
	if n == 0 {
		return errors.Wrapf(errs.ErrNotFound, "book %s", book.ID)
	}
	return nil
}

// UpdateBookStock shifts available stock by delta only if the result stays
// within [0, total_stock]; otherwise it returns ErrConflict and writes nothing.
func (r *repository) UpdateBookStock(ctx context.Context, id string, delta int) (model.Book, error) {
	return r.AdjustTotalStock(ctx, id, 0, delta)
}

func (r *repository) AdjustTotalStock(ctx context.Context, id string, totalDelta, availableDelta int) (model.Book, error) {
	n, err := r.exec(ctx, r.qb.Update(booksTableName).
		Set("total_stock", sq.Expr("total_stock + ?", totalDelta)).
		Set("available_stock", sq.Expr("available_stock + ?", availableDelta)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where("available_stock + ? >= 0", availableDelta).
		Where("available_stock + ? <= total_stock + ?", availableDelta, totalDelta))
	if err != nil {
		return model.Book{}, errors.Wrap(err, "AdjustTotalStock")
	}
	if n == 0 {
		book, err := r.GetBook(ctx, id)
		if err != nil {
			return model.Book{}, err
		}
		return book, errors.Wrapf(ErrConflict, "book %s stock %d/%d delta %d/%d",
			id, book.AvailableStock, book.TotalStock, availableDelta, totalDelta)
	}
	return r.GetBook(ctx, id)
}
