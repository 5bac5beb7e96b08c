package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/stretchr/testify/require"
)

func TestService_OverdueSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 3, 3)

	late := f.borrow(t, book.ID, "late@example.com")
	f.clock.Advance(3 * day)
	f.borrow(t, book.ID, "ontime@example.com")

	// late is due on day 14 and has been overdue 6 days on day 20
	f.clock.Advance(17 * day)
	now := f.clock.Now()

	dry := model.OverdueSweepRequest{Now: now, DryRun: true}
	first, err := f.svc.OverdueSweep(ctx, dry)
	require.NoError(t, err)
	require.Equal(t, 2, first.Total)
	require.Equal(t, late.ID, first.Items[0].Transaction.ID)
	require.Equal(t, 6, first.Items[0].DaysOverdue)
	require.Equal(t, 3, first.Items[1].DaysOverdue)
	require.Equal(t, 2, first.Eligible)
	require.Zero(t, first.Notified)
	require.Empty(t, f.notes.byKind(notifier.KindOverdue))

	second, err := f.svc.OverdueSweep(ctx, dry)
	require.NoError(t, err)
	require.Equal(t, first, second)

	narrow, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now, MinimumDaysOverdue: 5, DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 1, narrow.Total)
	require.Equal(t, late.ID, narrow.Items[0].Transaction.ID)

	sent, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now})
	require.NoError(t, err)
	require.Equal(t, 2, sent.Notified)
	reminders := f.notes.byKind(notifier.KindOverdue)
	require.Len(t, reminders, 2)
	require.Equal(t, "late@example.com", reminders[0].user)
	payload, ok := reminders[0].payload.(model.OverduePayload)
	require.True(t, ok)
	require.Equal(t, 6, payload.DaysOverdue)
	require.Equal(t, book.Title, payload.Title)

	repeat, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now})
	require.NoError(t, err)
	require.Equal(t, 2, repeat.Total)
	require.Zero(t, repeat.Eligible)
	require.Zero(t, repeat.Notified)
	require.Len(t, f.notes.byKind(notifier.KindOverdue), 2)

	forced, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now, Force: true})
	require.NoError(t, err)
	require.Equal(t, 2, forced.Notified)
	require.Len(t, f.notes.byKind(notifier.KindOverdue), 4)
}

func TestService_OverdueSweepRetriesAfterQueueFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 1)

	loan := f.borrow(t, book.ID, "late@example.com")
	f.clock.Advance(20 * day)

	f.notes.mu.Lock()
	f.notes.fail = true
	f.notes.mu.Unlock()

	report, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: f.clock.Now()})
	require.ErrorIs(t, err, notifier.ErrQueueFull)
	require.Zero(t, report.Notified)

	got, err := f.svc.GetTransaction(ctx, loan.ID)
	require.NoError(t, err)
	require.False(t, got.ReminderSent)

	f.notes.mu.Lock()
	f.notes.fail = false
	f.notes.mu.Unlock()

	report, err = f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: f.clock.Now()})
	require.NoError(t, err)
	require.Equal(t, 1, report.Notified)
}

func TestService_OverdueSweepSkipsReturned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 1)

	loan := f.borrow(t, book.ID, "u@example.com")
	f.clock.Advance(20 * day)
	_, err := f.svc.CompleteReturn(ctx, loan.ID)
	require.NoError(t, err)

	report, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: f.clock.Now()})
	require.NoError(t, err)
	require.Zero(t, report.Total)
	require.NotNil(t, report.Items)
}

func TestService_OverdueSweepFailedResendKeepsFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	book := f.book(t, 1, 1)

	loan := f.borrow(t, book.ID, "late@example.com")
	f.clock.Advance(20 * day)
	now := f.clock.Now()

	first, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now})
	require.NoError(t, err)
	require.Equal(t, 1, first.Notified)

	f.notes.mu.Lock()
	f.notes.fail = true
	f.notes.mu.Unlock()

	_, err = f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now, Force: true})
	require.ErrorIs(t, err, notifier.ErrQueueFull)

	got, err := f.svc.GetTransaction(ctx, loan.ID)
	require.NoError(t, err)
	require.True(t, got.ReminderSent)

	f.notes.mu.Lock()
	f.notes.fail = false
	f.notes.mu.Unlock()

	rerun, err := f.svc.OverdueSweep(ctx, model.OverdueSweepRequest{Now: now})
	require.NoError(t, err)
	require.Zero(t, rerun.Eligible)
	require.Zero(t, rerun.Notified)
	require.Len(t, f.notes.byKind(notifier.KindOverdue), 1)
}
