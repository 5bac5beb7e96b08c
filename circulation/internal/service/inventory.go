package service

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Inventory is the only writer of book stock counters. Every method expects the
// caller to hold the book lock and to pass the transaction-bound repository;
// the conditional update underneath keeps each step atomic regardless.
type Inventory struct {
	log *zap.Logger
}

func NewInventory(log *zap.Logger) *Inventory {
	return &Inventory{log: log.Named("inventory")}
}

// Decrement lends one copy and returns the new available count.
func (inv *Inventory) Decrement(ctx context.Context, repo repository.Repository, bookID string) (int, error) {
	book, err := repo.UpdateBookStock(ctx, bookID, -1)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return book.AvailableStock, errors.Wrapf(errs.ErrOutOfStock, "book %s", bookID)
		}
		return 0, err
	}
	return book.AvailableStock, nil
}

// Increment takes one copy back. Exceeding total stock means a copy was
// returned twice somewhere upstream.
func (inv *Inventory) Increment(ctx context.Context, repo repository.Repository, bookID string) (int, error) {
	book, err := repo.UpdateBookStock(ctx, bookID, 1)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return book.AvailableStock, inv.violation(err, bookID, "increment above total stock")
		}
		return 0, err
	}
	return book.AvailableStock, nil
}

// WriteOff removes a lost copy from circulation: total stock shrinks, the
// available count is untouched because the copy was on loan.
func (inv *Inventory) WriteOff(ctx context.Context, repo repository.Repository, bookID string) (int, error) {
	book, err := repo.AdjustTotalStock(ctx, bookID, -1, 0)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return book.TotalStock, inv.violation(err, bookID, "write-off with no copy on loan")
		}
		return 0, err
	}
	return book.TotalStock, nil
}

// Adjust applies a catalog edit of delta copies to both counters. Copies on
// loan and the reserved copies promised to ready holds cannot be removed.
func (inv *Inventory) Adjust(ctx context.Context, repo repository.Repository, bookID string, delta, reserved int) (int, error) {
	if delta == 0 {
		book, err := repo.GetBook(ctx, bookID)
		return book.AvailableStock, err
	}
	if delta < 0 {
		cur, err := repo.GetBook(ctx, bookID)
		if err != nil {
			return 0, err
		}
		if cur.AvailableStock+delta < reserved {
			return cur.AvailableStock, inv.violation(
				errors.Errorf("%d available, %d held for pickup, removing %d", cur.AvailableStock, reserved, -delta),
				bookID, "catalog edit removes copies held for pickup")
		}
	}
	book, err := repo.AdjustTotalStock(ctx, bookID, delta, delta)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return book.AvailableStock, inv.violation(err, bookID, "catalog edit removes copies on loan")
		}
		return 0, err
	}
	return book.AvailableStock, nil
}

func (inv *Inventory) violation(cause error, bookID, what string) error {
	inv.log.Error("stock invariant violation",
		zap.String("book", bookID),
		zap.String("op", what),
		zap.Error(cause))
	return errors.Wrapf(errs.ErrInvariantViolation, "book %s: %s", bookID, what)
}
