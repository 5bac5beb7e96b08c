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

var holdColumns = []string{
	"id", "book_id", "user_email", "status", "hold_date", "queue_position",
	"ready_pickup_date", "expiry_date", "cancel_reason", "updated_at",
}

type HoldFilter struct {
	BookID       string
	UserEmail    string
	Statuses     []model.HoldStatus
	ExpiryBefore *time.Time
	Limit        uint64
}

func (r *repository) GetHold(ctx context.Context, id string) (model.Hold, error) {
	var h model.Hold
	err := r.get(ctx, &h, r.qb.Select(holdColumns...).
		From(holdsTableName).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return model.Hold{}, errors.Wrapf(err, "hold %s", id)
	}
	return h, nil
}

func (r *repository) CreateHold(ctx context.Context, h model.Hold) error {
	_, err := r.exec(ctx, r.qb.Insert(holdsTableName).
		Columns(holdColumns...).
		Values(h.ID, h.BookID, h.UserEmail, string(h.Status), h.HoldDate.UTC(), h.QueuePosition,
			utcPtr(h.ReadyPickupDate), h.ExpiryDate.UTC(), h.CancelReason, h.UpdatedAt.UTC()))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.ErrAlreadyOnHold, "book %s user %s", h.BookID, h.UserEmail)
		}
		return errors.Wrap(err, "CreateHold")
	}
	return nil
}

// SaveHold persists h only while the stored status still equals expected.
func (r *repository) SaveHold(ctx context.Context, h model.Hold, expected model.HoldStatus) error {
	n, err := r.exec(ctx, r.qb.Update(holdsTableName).
		Set("status", string(h.Status)).
		Set("queue_position", h.QueuePosition).
		Set("ready_pickup_date", utcPtr(h.ReadyPickupDate)).
		Set("expiry_date", h.ExpiryDate.UTC()).
		Set("cancel_reason", h.CancelReason).
		Set("updated_at", h.UpdatedAt.UTC()).
		Where(sq.Eq{"id": h.ID, "status": string(expected)}))
	if err != nil {
		return errors.Wrap(err, "SaveHold")
	}
	if n == 0 {
		if _, err := r.GetHold(ctx, h.ID); err != nil {
			return err
		}
		return errors.Wrapf(ErrConflict, "hold %s is no longer %s", h.ID, expected)
	}
	return nil
}

// QueryHolds returns holds in queue order: position first, then arrival.
func (r *repository) QueryHolds(ctx context.Context, f HoldFilter) ([]model.Hold, error) {
	b := r.qb.Select(holdColumns...).From(holdsTableName)
	if f.BookID != "" {
		b = b.Where(sq.Eq{"book_id": f.BookID})
	}
	if f.UserEmail != "" {
		b = b.Where(sq.Eq{"user_email": f.UserEmail})
	}
	if len(f.Statuses) > 0 {
		b = b.Where(sq.Eq{"status": statusStrings(f.Statuses)})
	}
	if f.ExpiryBefore != nil {
		b = b.Where(sq.Lt{"expiry_date": f.ExpiryBefore.UTC()})
	}
	b = b.OrderBy("book_id", "queue_position", "hold_date", "id")
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Hold, 0)
	if err := sqlx.SelectContext(ctx, r.db, &items, q, args...); err != nil {
		return nil, errors.Wrap(err, "QueryHolds")
	}
	return items, nil
}

func (r *repository) MaxQueuePosition(ctx context.Context, bookID string) (int, error) {
	var pos int
	err := r.get(ctx, &pos, r.qb.Select("coalesce(max(queue_position), 0)").
		From(holdsTableName).
		Where(sq.Eq{"book_id": bookID, "status": string(model.HoldActive)}))
	if err != nil {
		return 0, errors.Wrap(err, "MaxQueuePosition")
	}
	return pos, nil
}

// ShiftQueue closes the gap left at position after: every active hold behind it
// moves up by one, in a single statement.
func (r *repository) ShiftQueue(ctx context.Context, bookID string, after int) error {
	_, err := r.exec(ctx, r.qb.Update(holdsTableName).
		Set("queue_position", sq.Expr("queue_position - 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"book_id": bookID, "status": string(model.HoldActive)}).
		Where(sq.Gt{"queue_position": after}))
	return errors.Wrap(err, "ShiftQueue")
}
