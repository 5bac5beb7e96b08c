package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/stretchr/testify/require"
)

func TestService_PlaceHoldErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	free := f.book(t, 1, 1)
	_, err := f.svc.PlaceHold(ctx, free.ID, "u@example.com")
	require.ErrorIs(t, err, errs.ErrStockAvailable)

	_, err = f.svc.PlaceHold(ctx, "missing", "u@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)

	out := f.book(t, 1, 0)
	_, err = f.svc.PlaceHold(ctx, out.ID, "u@example.com")
	require.NoError(t, err)
	_, err = f.svc.PlaceHold(ctx, out.ID, "u@example.com")
	require.ErrorIs(t, err, errs.ErrAlreadyOnHold)

	archived := f.book(t, 1, 0)
	archived.Archived = true
	require.NoError(t, f.repo.UpdateBook(ctx, archived))
	_, err = f.svc.PlaceHold(ctx, archived.ID, "u@example.com")
	require.ErrorIs(t, err, errs.ErrBookArchived)
	_, err = f.svc.RequestBorrow(ctx, archived.ID, "u@example.com")
	require.ErrorIs(t, err, errs.ErrBookArchived)
}

func TestService_CancelHoldKeepsQueueDense(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 0)

	holds := make([]model.Hold, 0, 5)
	for _, user := range []string{"a", "b", "c", "d", "e"} {
		h, err := f.svc.PlaceHold(ctx, book.ID, user+"@example.com")
		require.NoError(t, err)
		holds = append(holds, h)
	}
	requireDense(t, f.queue(t, book.ID))

	cancelled, err := f.svc.CancelHold(ctx, holds[1].ID, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, model.HoldCancelled, cancelled.Status)
	require.Equal(t, "changed my mind", cancelled.CancelReason)

	queue := f.queue(t, book.ID)
	require.Len(t, queue, 4)
	requireDense(t, queue)
	require.Equal(t, []string{"a@example.com", "c@example.com", "d@example.com", "e@example.com"},
		[]string{queue[0].UserEmail, queue[1].UserEmail, queue[2].UserEmail, queue[3].UserEmail})

	_, err = f.svc.CancelHold(ctx, holds[0].ID, "")
	require.NoError(t, err)
	_, err = f.svc.CancelHold(ctx, holds[4].ID, "")
	require.NoError(t, err)
	queue = f.queue(t, book.ID)
	require.Len(t, queue, 2)
	requireDense(t, queue)
	require.Equal(t, "c@example.com", queue[0].UserEmail)

	_, err = f.svc.CancelHold(ctx, holds[1].ID, "")
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	h, err := f.svc.PlaceHold(ctx, book.ID, "f@example.com")
	require.NoError(t, err)
	require.Equal(t, 3, h.QueuePosition)
}

func TestService_CancelReadyHoldPromotesNext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 1)

	loan := f.borrow(t, book.ID, "a@example.com")
	holdB, err := f.svc.PlaceHold(ctx, book.ID, "b@example.com")
	require.NoError(t, err)
	holdC, err := f.svc.PlaceHold(ctx, book.ID, "c@example.com")
	require.NoError(t, err)

	res, err := f.svc.CompleteReturn(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, holdB.ID, res.PromotedHold.ID)

	_, err = f.svc.CancelHold(ctx, holdB.ID, "no longer needed")
	require.NoError(t, err)

	c, err := f.svc.GetHold(ctx, holdC.ID)
	require.NoError(t, err)
	require.Equal(t, model.HoldReady, c.Status)
	require.Equal(t, 0, c.QueuePosition)
	require.Empty(t, f.queue(t, book.ID))

	ready := f.notes.byKind(notifier.KindHoldReady)
	require.Len(t, ready, 2)
	require.Equal(t, "c@example.com", ready[1].user)
}

func TestService_PromoteNext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 0)

	hold, err := f.svc.PlaceHold(ctx, book.ID, "a@example.com")
	require.NoError(t, err)

	promoted, err := f.svc.PromoteNext(ctx, book.ID)
	require.NoError(t, err)
	require.Nil(t, promoted)

	_, err = f.repo.UpdateBookStock(ctx, book.ID, 1)
	require.NoError(t, err)

	promoted, err = f.svc.PromoteNext(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, promoted)
	require.Equal(t, hold.ID, promoted.ID)

	promoted, err = f.svc.PromoteNext(ctx, book.ID)
	require.NoError(t, err)
	require.Nil(t, promoted)
}

func TestService_ExpireSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 1)

	loan := f.borrow(t, book.ID, "a@example.com")
	holdB, err := f.svc.PlaceHold(ctx, book.ID, "b@example.com")
	require.NoError(t, err)
	holdC, err := f.svc.PlaceHold(ctx, book.ID, "c@example.com")
	require.NoError(t, err)

	f.clock.Advance(2 * day)
	res, err := f.svc.CompleteReturn(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, holdB.ID, res.PromotedHold.ID)

	nothing, err := f.svc.ExpireSweep(ctx, f.clock.Now().Add(6*day))
	require.NoError(t, err)
	require.Empty(t, nothing.Expired)
	require.Empty(t, nothing.Promoted)

	// b never picks up: day 10, past the 7 day window, c's hold runs until day 14
	f.clock.Advance(8 * day)
	swept, err := f.svc.ExpireSweep(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Len(t, swept.Expired, 1)
	require.Equal(t, holdB.ID, swept.Expired[0].ID)
	require.Equal(t, model.HoldExpired, swept.Expired[0].Status)
	require.Len(t, swept.Promoted, 1)
	require.Equal(t, holdC.ID, swept.Promoted[0].ID)
	require.True(t, swept.Promoted[0].ExpiryDate.Equal(f.clock.Now().Add(7*day)))

	expired := f.notes.byKind(notifier.KindHoldExpired)
	require.Len(t, expired, 1)
	require.Equal(t, "b@example.com", expired[0].user)

	_, available := f.stock(t, book.ID)
	require.Equal(t, 1, available)

	again, err := f.svc.ExpireSweep(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Empty(t, again.Expired)
}

func TestService_ExpireSweepWaitingHolds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 0)

	first, err := f.svc.PlaceHold(ctx, book.ID, "a@example.com")
	require.NoError(t, err)
	f.clock.Advance(5 * day)
	second, err := f.svc.PlaceHold(ctx, book.ID, "b@example.com")
	require.NoError(t, err)

	f.clock.Advance(10 * day)
	swept, err := f.svc.ExpireSweep(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Len(t, swept.Expired, 1)
	require.Equal(t, first.ID, swept.Expired[0].ID)
	require.Empty(t, swept.Promoted)

	queue := f.queue(t, book.ID)
	require.Len(t, queue, 1)
	require.Equal(t, second.ID, queue[0].ID)
	requireDense(t, queue)
}
