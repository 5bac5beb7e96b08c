package service

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RequestBorrow opens a pending borrow request. Stock is untouched until approval.
func (s *Service) RequestBorrow(ctx context.Context, bookID, userEmail string) (model.Transaction, error) {
	return s.request(ctx, bookID, userEmail, model.TypeBorrow)
}

// RequestReserve opens a pending reserve request; reserves do not count toward the borrow limit.
func (s *Service) RequestReserve(ctx context.Context, bookID, userEmail string) (model.Transaction, error) {
	return s.request(ctx, bookID, userEmail, model.TypeReserve)
}

func (s *Service) request(ctx context.Context, bookID, userEmail string, typ model.TransactionType) (model.Transaction, error) {
	if bookID == "" || userEmail == "" {
		return model.Transaction{}, errors.Wrap(errs.ErrInvalidArgument, "book and user are required")
	}
	unlock := s.locks.Lock(userKey(userEmail))
	defer unlock()

	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.Transaction{}, err
	}
	if book.Archived {
		return model.Transaction{}, errors.Wrapf(errs.ErrBookArchived, "book %s", bookID)
	}
	if typ == model.TypeBorrow {
		if err = s.checkBorrowLimit(ctx, s.repo, userEmail); err != nil {
			return model.Transaction{}, err
		}
	}
	open, err := s.repo.CountTransactions(ctx, repository.TransactionFilter{
		UserEmail: userEmail,
		BookID:    bookID,
		Statuses:  []model.TransactionStatus{model.TransactionPending, model.TransactionActive},
	})
	if err != nil {
		return model.Transaction{}, err
	}
	if open > 0 {
		return model.Transaction{}, errors.Wrapf(errs.ErrDuplicateRequest, "book %s user %s", bookID, userEmail)
	}

	now := s.now()
	t := model.Transaction{
		ID:          uuid.NewString(),
		BookID:      bookID,
		UserEmail:   userEmail,
		Type:        typ,
		Status:      model.TransactionPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	if err = s.repo.CreateTransaction(ctx, t); err != nil {
		return model.Transaction{}, err
	}
	s.log.Info("request created",
		zap.String("transaction", t.ID),
		zap.String("book", bookID),
		zap.String("type", string(typ)))
	return t, nil
}

func (s *Service) checkBorrowLimit(ctx context.Context, repo repository.Repository, userEmail string) error {
	active, err := repo.CountTransactions(ctx, repository.TransactionFilter{
		UserEmail: userEmail,
		Types:     []model.TransactionType{model.TypeBorrow},
		Statuses:  []model.TransactionStatus{model.TransactionActive},
	})
	if err != nil {
		return err
	}
	if active >= s.policy.MaxActiveBorrows {
		return errors.Wrapf(errs.ErrLimitExceeded, "%d active borrows, limit %d", active, s.policy.MaxActiveBorrows)
	}
	return nil
}

// Approve lends a copy to a pending request. Copies held for other users' ready
// holds are not lendable, and a failed approval never queues the user.
func (s *Service) Approve(ctx context.Context, id string) (model.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if !t.Status.CanTransitionTo(model.TransactionActive) {
		return model.Transaction{}, transitionError(t.ID, t.Status, model.TransactionActive)
	}

	unlockUser := s.locks.Lock(userKey(t.UserEmail))
	defer unlockUser()
	unlockBook := s.lockBook(t.BookID)
	defer unlockBook()

	err = s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockUser(ctx, t.UserEmail); err != nil {
			return err
		}
		if err := r.LockBook(ctx, t.BookID); err != nil {
			return err
		}
		cur, err := r.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransitionTo(model.TransactionActive) {
			return transitionError(cur.ID, cur.Status, model.TransactionActive)
		}
		if cur.Type == model.TypeBorrow {
			if err = s.checkBorrowLimit(ctx, r, cur.UserEmail); err != nil {
				return err
			}
		}

		book, err := r.GetBook(ctx, cur.BookID)
		if err != nil {
			return err
		}
		ready, err := r.QueryHolds(ctx, repository.HoldFilter{
			BookID:   cur.BookID,
			Statuses: []model.HoldStatus{model.HoldReady},
		})
		if err != nil {
			return err
		}
		own := -1
		for i := range ready {
			if ready[i].UserEmail == cur.UserEmail {
				own = i
				break
			}
		}
		heldForOthers := len(ready)
		if own >= 0 {
			heldForOthers--
		}
		if book.AvailableStock <= heldForOthers {
			return errors.Wrapf(errs.ErrOutOfStock, "book %s: %d available, %d held for pickup",
				book.ID, book.AvailableStock, heldForOthers)
		}

		if _, err = s.inventory.Decrement(ctx, r, cur.BookID); err != nil {
			return err
		}

		now := s.now()
		if own >= 0 {
			h := ready[own]
			h.Status = model.HoldFulfilled
			h.UpdatedAt = now
			if err = r.SaveHold(ctx, h, model.HoldReady); err != nil {
				return conflictAsTransition(err)
			}
		}

		end := now.Add(s.policy.LoanPeriod)
		cur.Status = model.TransactionActive
		cur.StartDate = &now
		cur.EndDate = &end
		cur.ReminderSent = false
		cur.UpdatedAt = now
		if err = r.SaveTransaction(ctx, cur, model.TransactionPending); err != nil {
			return conflictAsTransition(err)
		}
		t = cur
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.log.Info("request approved",
		zap.String("transaction", t.ID),
		zap.String("book", t.BookID),
		zap.Timep("due", t.EndDate))
	return t, nil
}

// Reject declines a pending request. No stock effect.
func (s *Service) Reject(ctx context.Context, id string) (model.Transaction, error) {
	return s.closePending(ctx, id, "", model.TransactionRejected)
}

// Cancel withdraws a pending request on behalf of the user who made it.
func (s *Service) Cancel(ctx context.Context, id, userEmail string) (model.Transaction, error) {
	return s.closePending(ctx, id, userEmail, model.TransactionCancelled)
}

func (s *Service) closePending(ctx context.Context, id, owner string, to model.TransactionStatus) (model.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if owner != "" && t.UserEmail != owner {
		return model.Transaction{}, errors.Wrapf(errs.ErrNotOwner, "transaction %s", id)
	}
	if !t.Status.CanTransitionTo(to) {
		return model.Transaction{}, transitionError(t.ID, t.Status, to)
	}

	prev := t.Status
	t.Status = to
	t.UpdatedAt = s.now()
	if err = s.repo.SaveTransaction(ctx, t, prev); err != nil {
		return model.Transaction{}, conflictAsTransition(err)
	}
	s.log.Info("request closed", zap.String("transaction", id), zap.String("status", string(to)))
	return t, nil
}

// RequestReturn records that the borrower handed the copy in; a librarian
// confirms it with CompleteReturn.
func (s *Service) RequestReturn(ctx context.Context, id, userEmail string, condition model.Condition) (model.Transaction, error) {
	if condition == "" {
		condition = model.ConditionGood
	}
	if !condition.Valid() {
		return model.Transaction{}, errors.Wrapf(errs.ErrInvalidArgument, "return condition %q", condition)
	}
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.UserEmail != userEmail {
		return model.Transaction{}, errors.Wrapf(errs.ErrNotOwner, "transaction %s", id)
	}

	// same lock as CompleteReturn, which reads the requested condition
	unlock := s.lockBook(t.BookID)
	defer unlock()

	err = s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, t.BookID); err != nil {
			return err
		}
		cur, err := r.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status != model.TransactionActive {
			return transitionError(cur.ID, cur.Status, model.TransactionCompleted)
		}
		if cur.ReturnRequested {
			return errors.Wrapf(errs.ErrDuplicateRequest, "return of %s already requested", id)
		}

		cur.ReturnRequested = true
		cur.ReturnCondition = &condition
		cur.UpdatedAt = s.now()
		if err = r.SaveTransaction(ctx, cur, model.TransactionActive); err != nil {
			return conflictAsTransition(err)
		}
		t = cur
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// CompleteReturn closes a loan and gives the copy back. The freed copy is
// offered to the head of the hold queue in the same database transaction, so
// no new borrower can see it first.
func (s *Service) CompleteReturn(ctx context.Context, id string) (model.ReturnResult, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.ReturnResult{}, err
	}
	if !t.Status.CanTransitionTo(model.TransactionCompleted) {
		return model.ReturnResult{}, transitionError(t.ID, t.Status, model.TransactionCompleted)
	}

	unlock := s.lockBook(t.BookID)
	defer unlock()

	var result model.ReturnResult
	err = s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, t.BookID); err != nil {
			return err
		}
		cur, err := r.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransitionTo(model.TransactionCompleted) {
			return transitionError(cur.ID, cur.Status, model.TransactionCompleted)
		}

		now := s.now()
		condition := model.ConditionGood
		if cur.ReturnCondition != nil {
			condition = *cur.ReturnCondition
		}
		cur.Status = model.TransactionCompleted
		cur.ReturnDate = &now
		cur.ReturnCondition = &condition
		cur.UpdatedAt = now
		if err = r.SaveTransaction(ctx, cur, model.TransactionActive); err != nil {
			return conflictAsTransition(err)
		}

		if condition == model.ConditionLost {
			if _, err = s.inventory.WriteOff(ctx, r, cur.BookID); err != nil {
				return err
			}
		} else {
			if _, err = s.inventory.Increment(ctx, r, cur.BookID); err != nil {
				return err
			}
			if result.PromotedHold, err = s.promoteNext(ctx, r, cur.BookID, now); err != nil {
				return err
			}
		}

		book, err := r.GetBook(ctx, cur.BookID)
		if err != nil {
			return err
		}
		result.Transaction = cur
		result.Book = book
		return nil
	})
	if err != nil {
		return model.ReturnResult{}, err
	}

	if result.PromotedHold != nil {
		s.notifyHoldReady(ctx, *result.PromotedHold, result.Book.Title)
	}
	s.log.Info("return completed",
		zap.String("transaction", id),
		zap.String("book", result.Book.ID),
		zap.Int("available", result.Book.AvailableStock),
		zap.Bool("promoted", result.PromotedHold != nil))
	return result, nil
}

func transitionError[S ~string](id string, from, to S) error {
	return errors.Wrapf(errs.ErrInvalidStateTransition, "%s: %s -> %s", id, from, to)
}

// conflictAsTransition turns a lost conditional write into the error the caller
// sees when a concurrent operation moved the row first.
func conflictAsTransition(err error) error {
	if errors.Is(err, repository.ErrConflict) {
		return errors.Wrap(errs.ErrInvalidStateTransition, err.Error())
	}
	return err
}
