package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PlaceHold queues the user for a title with no lendable copy. Positions are
// dense: the new hold goes to the tail at max+1.
func (s *Service) PlaceHold(ctx context.Context, bookID, userEmail string) (model.Hold, error) {
	if bookID == "" || userEmail == "" {
		return model.Hold{}, errors.Wrap(errs.ErrInvalidArgument, "book and user are required")
	}
	unlock := s.lockBook(bookID)
	defer unlock()

	var h model.Hold
	err := s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, bookID); err != nil {
			return err
		}
		book, err := r.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		if book.Archived {
			return errors.Wrapf(errs.ErrBookArchived, "book %s", bookID)
		}

		open, err := r.QueryHolds(ctx, repository.HoldFilter{
			BookID:    bookID,
			UserEmail: userEmail,
			Statuses:  []model.HoldStatus{model.HoldActive, model.HoldReady},
		})
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return errors.Wrapf(errs.ErrAlreadyOnHold, "hold %s", open[0].ID)
		}

		free, err := unreservedCopies(ctx, r, book)
		if err != nil {
			return err
		}
		if free > 0 {
			return errors.Wrapf(errs.ErrStockAvailable, "book %s has %d copies", bookID, free)
		}

		last, err := r.MaxQueuePosition(ctx, bookID)
		if err != nil {
			return err
		}
		now := s.now()
		h = model.Hold{
			ID:            uuid.NewString(),
			BookID:        bookID,
			UserEmail:     userEmail,
			Status:        model.HoldActive,
			HoldDate:      now,
			QueuePosition: last + 1,
			ExpiryDate:    now.Add(s.policy.HoldPeriod),
			UpdatedAt:     now,
		}
		return r.CreateHold(ctx, h)
	})
	if err != nil {
		return model.Hold{}, err
	}
	s.log.Info("hold placed",
		zap.String("hold", h.ID),
		zap.String("book", bookID),
		zap.Int("position", h.QueuePosition))
	return h, nil
}

// CancelHold withdraws an open hold. Holders behind an active hold move up;
// a cancelled ready hold passes its copy to the next holder.
func (s *Service) CancelHold(ctx context.Context, holdID, reason string) (model.Hold, error) {
	h, err := s.repo.GetHold(ctx, holdID)
	if err != nil {
		return model.Hold{}, err
	}
	if !h.Status.CanTransitionTo(model.HoldCancelled) {
		return model.Hold{}, transitionError(h.ID, h.Status, model.HoldCancelled)
	}

	unlock := s.lockBook(h.BookID)
	defer unlock()

	var (
		promoted *model.Hold
		title    string
	)
	err = s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, h.BookID); err != nil {
			return err
		}
		cur, err := r.GetHold(ctx, holdID)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransitionTo(model.HoldCancelled) {
			return transitionError(cur.ID, cur.Status, model.HoldCancelled)
		}

		now := s.now()
		prev, pos := cur.Status, cur.QueuePosition
		cur.Status = model.HoldCancelled
		cur.CancelReason = reason
		cur.QueuePosition = 0
		cur.UpdatedAt = now
		if err = r.SaveHold(ctx, cur, prev); err != nil {
			return conflictAsTransition(err)
		}

		switch prev {
		case model.HoldActive:
			if err = r.ShiftQueue(ctx, cur.BookID, pos); err != nil {
				return err
			}
		case model.HoldReady:
			if promoted, err = s.promoteNext(ctx, r, cur.BookID, now); err != nil {
				return err
			}
		}
		book, err := r.GetBook(ctx, cur.BookID)
		if err != nil {
			return err
		}
		title = book.Title
		h = cur
		return nil
	})
	if err != nil {
		return model.Hold{}, err
	}

	if promoted != nil {
		s.notifyHoldReady(ctx, *promoted, title)
	}
	s.log.Info("hold cancelled", zap.String("hold", holdID), zap.String("reason", reason))
	return h, nil
}

// PromoteNext offers an unreserved copy to the head of the queue. It returns
// nil when there is no copy to offer or nobody waiting.
func (s *Service) PromoteNext(ctx context.Context, bookID string) (*model.Hold, error) {
	unlock := s.lockBook(bookID)
	defer unlock()

	var (
		promoted *model.Hold
		title    string
	)
	err := s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, bookID); err != nil {
			return err
		}
		var err error
		if promoted, err = s.promoteNext(ctx, r, bookID, s.now()); err != nil {
			return err
		}
		book, err := r.GetBook(ctx, bookID)
		title = book.Title
		return err
	})
	if err != nil {
		return nil, err
	}
	if promoted != nil {
		s.notifyHoldReady(ctx, *promoted, title)
	}
	return promoted, nil
}

// promoteNext runs inside the caller's transaction with the book locked.
func (s *Service) promoteNext(ctx context.Context, r repository.Repository, bookID string, now time.Time) (*model.Hold, error) {
	book, err := r.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	free, err := unreservedCopies(ctx, r, book)
	if err != nil || free <= 0 {
		return nil, err
	}

	head, err := r.QueryHolds(ctx, repository.HoldFilter{
		BookID:   bookID,
		Statuses: []model.HoldStatus{model.HoldActive},
		Limit:    1,
	})
	if err != nil || len(head) == 0 {
		return nil, err
	}
	h := head[0]
	if h.QueuePosition != 1 {
		s.log.Error("hold queue is not dense",
			zap.String("book", bookID),
			zap.String("hold", h.ID),
			zap.Int("head", h.QueuePosition))
		return nil, errors.Wrapf(errs.ErrInvariantViolation, "book %s: queue head at position %d", bookID, h.QueuePosition)
	}

	readyAt := now
	h.Status = model.HoldReady
	h.ReadyPickupDate = &readyAt
	h.ExpiryDate = now.Add(s.policy.PickupWindow)
	h.QueuePosition = 0
	h.UpdatedAt = now
	if err = r.SaveHold(ctx, h, model.HoldActive); err != nil {
		return nil, conflictAsTransition(err)
	}
	if err = r.ShiftQueue(ctx, bookID, 1); err != nil {
		return nil, err
	}
	s.log.Info("hold ready", zap.String("hold", h.ID), zap.String("book", bookID), zap.Time("pickupBy", h.ExpiryDate))
	return &h, nil
}

// unreservedCopies is the available stock not already promised to a ready hold.
func unreservedCopies(ctx context.Context, r repository.Repository, book model.Book) (int, error) {
	ready, err := r.QueryHolds(ctx, repository.HoldFilter{
		BookID:   book.ID,
		Statuses: []model.HoldStatus{model.HoldReady},
	})
	if err != nil {
		return 0, err
	}
	return book.AvailableStock - len(ready), nil
}

// ExpireSweep expires every open hold whose expiry date is before now and
// hands released copies down the queue. Waiting holds of a title are expired
// before its ready holds, so a released copy never goes to a hold that is
// itself past due. Failures of one title are logged and do not stop the others.
func (s *Service) ExpireSweep(ctx context.Context, now time.Time) (model.ExpireResult, error) {
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()

	candidates, err := s.repo.QueryHolds(ctx, repository.HoldFilter{
		Statuses:     []model.HoldStatus{model.HoldActive, model.HoldReady},
		ExpiryBefore: &now,
	})
	if err != nil {
		return model.ExpireResult{}, err
	}

	byBook := make(map[string][]model.Hold)
	order := make([]string, 0)
	for _, h := range candidates {
		if _, ok := byBook[h.BookID]; !ok {
			order = append(order, h.BookID)
		}
		byBook[h.BookID] = append(byBook[h.BookID], h)
	}

	result := model.ExpireResult{Expired: []model.Hold{}, Promoted: []model.Hold{}}
	var sweepErr error
	for _, bookID := range order {
		expired, promoted, err := s.expireBook(ctx, bookID, byBook[bookID], now)
		if err != nil {
			s.log.Error("expire holds", zap.String("book", bookID), zap.Error(err))
			sweepErr = multierr.Append(sweepErr, errors.Wrapf(err, "book %s", bookID))
			continue
		}
		result.Expired = append(result.Expired, expired...)
		result.Promoted = append(result.Promoted, promoted...)
	}

	s.log.Info("hold expiry sweep",
		zap.Int("expired", len(result.Expired)),
		zap.Int("promoted", len(result.Promoted)))
	return result, sweepErr
}

func (s *Service) expireBook(ctx context.Context, bookID string, candidates []model.Hold, now time.Time) (expired, promoted []model.Hold, err error) {
	unlock := s.lockBook(bookID)
	defer unlock()

	// waiting holds first, ready ones after
	ordered := make([]model.Hold, 0, len(candidates))
	for _, st := range []model.HoldStatus{model.HoldActive, model.HoldReady} {
		for _, h := range candidates {
			if h.Status == st {
				ordered = append(ordered, h)
			}
		}
	}

	var title string
	err = s.repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockBook(ctx, bookID); err != nil {
			return err
		}
		book, err := r.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		title = book.Title

		for _, c := range ordered {
			cur, err := r.GetHold(ctx, c.ID)
			if err != nil {
				return err
			}
			if !cur.Status.Open() || !cur.ExpiryDate.Before(now) {
				s.log.Debug("hold changed since scan", zap.String("hold", cur.ID), zap.String("status", string(cur.Status)))
				continue
			}
			prev, pos := cur.Status, cur.QueuePosition
			cur.Status = model.HoldExpired
			cur.QueuePosition = 0
			cur.UpdatedAt = now
			if err = r.SaveHold(ctx, cur, prev); err != nil {
				return err
			}
			if prev == model.HoldActive {
				if err = r.ShiftQueue(ctx, bookID, pos); err != nil {
					return err
				}
			}
			expired = append(expired, cur)
		}

		for {
			h, err := s.promoteNext(ctx, r, bookID, now)
			if err != nil {
				return err
			}
			if h == nil {
				return nil
			}
			promoted = append(promoted, *h)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	for _, h := range expired {
		s.notifyHoldExpired(ctx, h, title, now)
	}
	for _, h := range promoted {
		s.notifyHoldReady(ctx, h, title)
	}
	return expired, promoted, nil
}
