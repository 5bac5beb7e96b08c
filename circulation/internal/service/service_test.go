package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	"github.com/Astemirdum/library-circulation/pkg/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const day = 24 * time.Hour

var t0 = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

var policy = config.Policy{
	MaxActiveBorrows: 3,
	LoanPeriod:       14 * day,
	HoldPeriod:       14 * day,
	PickupWindow:     7 * day,
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type notification struct {
	user    string
	kind    notifier.Kind
	payload any
}

type fakeNotifier struct {
	mu   sync.Mutex
	fail bool
	sent []notification
}

func (n *fakeNotifier) Notify(_ context.Context, userEmail string, kind notifier.Kind, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return notifier.ErrQueueFull
	}
	n.sent = append(n.sent, notification{user: userEmail, kind: kind, payload: payload})
	return nil
}

func (n *fakeNotifier) byKind(kind notifier.Kind) []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, 0)
	for _, s := range n.sent {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	svc   *service.Service
	repo  repository.Repository
	notes *fakeNotifier
	clock *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlite.NewTestDB(t, migrations.MigrationFiles)
	repo, err := repository.NewRepository(db, zap.NewNop())
	require.NoError(t, err)

	f := &fixture{
		repo:  repo,
		notes: &fakeNotifier{},
		clock: &testClock{now: t0},
	}
	f.svc = service.NewService(repo, f.notes, policy, zap.NewNop(), service.WithClock(f.clock))
	return f
}

func (f *fixture) book(t *testing.T, total, available int) model.Book {
	t.Helper()
	b := model.Book{
		ID:             uuid.NewString(),
		Title:          "Мастер и Маргарита",
		TotalStock:     total,
		AvailableStock: available,
		UpdatedAt:      t0,
	}
	require.NoError(t, f.repo.CreateBook(context.Background(), b))
	return b
}

func (f *fixture) stock(t *testing.T, bookID string) (total, available int) {
	t.Helper()
	b, err := f.svc.GetBook(context.Background(), bookID)
	require.NoError(t, err)
	return b.TotalStock, b.AvailableStock
}

func (f *fixture) borrow(t *testing.T, bookID, user string) model.Transaction {
	t.Helper()
	ctx := context.Background()
	req, err := f.svc.RequestBorrow(ctx, bookID, user)
	require.NoError(t, err)
	tx, err := f.svc.Approve(ctx, req.ID)
	require.NoError(t, err)
	return tx
}

func (f *fixture) queue(t *testing.T, bookID string) []model.Hold {
	t.Helper()
	holds, err := f.repo.QueryHolds(context.Background(), repository.HoldFilter{
		BookID:   bookID,
		Statuses: []model.HoldStatus{model.HoldActive},
	})
	require.NoError(t, err)
	return holds
}

func requireDense(t *testing.T, holds []model.Hold) {
	t.Helper()
	for i, h := range holds {
		require.Equal(t, i+1, h.QueuePosition, "hold %s", h.UserEmail)
	}
}
