package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "book_id", "user_email", "type", "status", "requested_at", "start_date", "end_date",
	"return_date", "return_condition", "return_requested", "reminder_sent", "updated_at",
}

type TransactionFilter struct {
	UserEmail string
	BookID    string
	Types     []model.TransactionType
	Statuses  []model.TransactionStatus
	// EndBefore selects loans due strictly before the instant and orders by due date.
	EndBefore *time.Time
	Limit     uint64
}

func (f TransactionFilter) where(b sq.SelectBuilder) sq.SelectBuilder {
	if f.UserEmail != "" {
		b = b.Where(sq.Eq{"user_email": f.UserEmail})
	}
	if f.BookID != "" {
		b = b.Where(sq.Eq{"book_id": f.BookID})
	}
	if len(f.Types) > 0 {
		b = b.Where(sq.Eq{"type": statusStrings(f.Types)})
	}
	if len(f.Statuses) > 0 {
		b = b.Where(sq.Eq{"status": statusStrings(f.Statuses)})
	}
	if f.EndBefore != nil {
		b = b.Where(sq.Lt{"end_date": f.EndBefore.UTC()})
	}
	return b
}

func (r *repository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	var t model.Transaction
	err := r.get(ctx, &t, r.qb.Select(transactionColumns...).
		From(transactionsTableName).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return model.Transaction{}, errors.Wrapf(err, "transaction %s", id)
	}
	return t, nil
}

func (r *repository) CreateTransaction(ctx context.Context, t model.Transaction) error {
	_, err := r.exec(ctx, r.qb.Insert(transactionsTableName).
		Columns(transactionColumns...).
		Values(t.ID, t.BookID, t.UserEmail, string(t.Type), string(t.Status), t.RequestedAt.UTC(),
			utcPtr(t.StartDate), utcPtr(t.EndDate), utcPtr(t.ReturnDate), conditionPtr(t.ReturnCondition),
			t.ReturnRequested, t.ReminderSent, t.UpdatedAt.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.ErrDuplicateRequest, "book %s user %s", t.BookID, t.UserEmail)
		}
		return errors.Wrap(err, "CreateTransaction")
	}
	return nil
}

// SaveTransaction persists t only while the stored status still equals expected.
func (r *repository) SaveTransaction(ctx context.Context, t model.Transaction, expected model.TransactionStatus) error {
	n, err := r.exec(ctx, r.qb.Update(transactionsTableName).
		Set("status", string(t.Status)).
		Set("start_date", utcPtr(t.StartDate)).
		Set("end_date", utcPtr(t.EndDate)).
		Set("return_date", utcPtr(t.ReturnDate)).
		Set("return_condition", conditionPtr(t.ReturnCondition)).
		Set("return_requested", t.ReturnRequested).
		Set("reminder_sent", t.ReminderSent).
		Set("updated_at", t.UpdatedAt.UTC()).
		Where(sq.Eq{"id": t.ID, "status": string(expected)}))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.ErrDuplicateRequest, "transaction %s", t.ID)
		}
		return errors.Wrap(err, "SaveTransaction")
	}
	if n == 0 {
		if _, err := r.GetTransaction(ctx, t.ID); err != nil {
			return err
		}
		return errors.Wrapf(ErrConflict, "transaction %s is no longer %s", t.ID, expected)
	}
	return nil
}

func (r *repository) CountTransactions(ctx context.Context, f TransactionFilter) (int, error) {
	var count int
	if err := r.get(ctx, &count, f.where(r.qb.Select("count(*)").From(transactionsTableName))); err != nil {
		return 0, errors.Wrap(err, "CountTransactions")
	}
	return count, nil
}

func (r *repository) QueryTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error) {
	b := f.where(r.qb.Select(transactionColumns...).From(transactionsTableName))
	if f.EndBefore != nil {
		b = b.OrderBy("end_date", "id")
	} else {
		b = b.OrderBy("requested_at", "id")
	}
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("QueryTransactions", zap.String("query", q), zap.Any("args", args))

	items := make([]model.Transaction, 0)
	if err := sqlx.SelectContext(ctx, r.db, &items, q, args...); err != nil {
		return nil, errors.Wrap(err, "QueryTransactions")
	}
	return items, nil
}

// MarkReminderSent flips reminder_sent for a loan that is still active. Without
// force a reminder already sent is left alone. It reports whether a row changed.
func (r *repository) MarkReminderSent(ctx context.Context, id string, force bool, now time.Time) (bool, error) {
	b := r.qb.Update(transactionsTableName).
		Set("reminder_sent", true).
		Set("updated_at", now.UTC()).
		Where(sq.Eq{"id": id, "status": string(model.TransactionActive)})
	if !force {
		b = b.Where(sq.Eq{"reminder_sent": false})
	}
	n, err := r.exec(ctx, b)
	if err != nil {
		return false, errors.Wrap(err, "MarkReminderSent")
	}
	return n > 0, nil
}

func (r *repository) ResetReminder(ctx context.Context, id string, now time.Time) error {
	_, err := r.exec(ctx, r.qb.Update(transactionsTableName).
		Set("reminder_sent", false).
		Set("updated_at", now.UTC()).
		Where(sq.Eq{"id": id}))
	return errors.Wrap(err, "ResetReminder")
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func conditionPtr(c *model.Condition) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
