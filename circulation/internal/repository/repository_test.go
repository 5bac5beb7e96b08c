package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	"github.com/Astemirdum/library-circulation/pkg/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) repository.Repository {
	t.Helper()
	db := sqlite.NewTestDB(t, migrations.MigrationFiles)
	repo, err := repository.NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func createBook(t *testing.T, repo repository.Repository, total, available int) model.Book {
	t.Helper()
	book := model.Book{
		ID:             uuid.NewString(),
		Title:          "Структура и интерпретация компьютерных программ",
		TotalStock:     total,
		AvailableStock: available,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.CreateBook(context.Background(), book))
	return book
}

func TestRepository_UpdateBookStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 2, 1)

	got, err := repo.UpdateBookStock(ctx, book.ID, -1)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableStock)

	_, err = repo.UpdateBookStock(ctx, book.ID, -1)
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err = repo.UpdateBookStock(ctx, book.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableStock)

	_, err = repo.UpdateBookStock(ctx, book.ID, 1)
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err = repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableStock)
	require.Equal(t, 2, got.TotalStock)

	_, err = repo.UpdateBookStock(ctx, "missing", 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_AdjustTotalStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 3, 1)

	got, err := repo.AdjustTotalStock(ctx, book.ID, -1, 0)
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalStock)
	require.Equal(t, 1, got.AvailableStock)

	_, err = repo.AdjustTotalStock(ctx, book.ID, -2, -2)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestRepository_SaveTransactionConditional(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 1, 1)

	tx := model.Transaction{
		ID:          uuid.NewString(),
		BookID:      book.ID,
		UserEmail:   "reader@example.com",
		Type:        model.TypeBorrow,
		Status:      model.TransactionPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.CreateTransaction(ctx, tx))

	dup := tx
	dup.ID = uuid.NewString()
	require.ErrorIs(t, repo.CreateTransaction(ctx, dup), errs.ErrDuplicateRequest)

	tx.Status = model.TransactionRejected
	require.NoError(t, repo.SaveTransaction(ctx, tx, model.TransactionPending))

	tx.Status = model.TransactionCancelled
	require.ErrorIs(t, repo.SaveTransaction(ctx, tx, model.TransactionPending), repository.ErrConflict)

	got, err := repo.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, model.TransactionRejected, got.Status)
	require.True(t, got.RequestedAt.Equal(now))
}

func TestRepository_QueryOverdue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 3, 0)

	for i, days := range []int{-10, -3, 5} {
		end := now.AddDate(0, 0, days)
		start := end.AddDate(0, 0, -14)
		require.NoError(t, repo.CreateTransaction(ctx, model.Transaction{
			ID:          uuid.NewString(),
			BookID:      book.ID,
			UserEmail:   []string{"a@example.com", "b@example.com", "c@example.com"}[i],
			Type:        model.TypeBorrow,
			Status:      model.TransactionActive,
			RequestedAt: start,
			StartDate:   &start,
			EndDate:     &end,
			UpdatedAt:   start,
		}))
	}

	cutoff := now.AddDate(0, 0, -7)
	items, err := repo.QueryTransactions(ctx, repository.TransactionFilter{
		Statuses:  []model.TransactionStatus{model.TransactionActive},
		EndBefore: &cutoff,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "a@example.com", items[0].UserEmail)

	items, err = repo.QueryTransactions(ctx, repository.TransactionFilter{
		Statuses:  []model.TransactionStatus{model.TransactionActive},
		EndBefore: &now,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a@example.com", items[0].UserEmail)
	require.Equal(t, "b@example.com", items[1].UserEmail)

	ok, err := repo.MarkReminderSent(ctx, items[0].ID, false, now)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.MarkReminderSent(ctx, items[0].ID, false, now)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = repo.MarkReminderSent(ctx, items[0].ID, true, now)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRepository_HoldQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 1, 0)

	holds := make([]model.Hold, 0, 3)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		h := model.Hold{
			ID:            uuid.NewString(),
			BookID:        book.ID,
			UserEmail:     email,
			Status:        model.HoldActive,
			HoldDate:      now.Add(time.Duration(i) * time.Minute),
			QueuePosition: i + 1,
			ExpiryDate:    now.AddDate(0, 0, 14),
			UpdatedAt:     now,
		}
		require.NoError(t, repo.CreateHold(ctx, h))
		holds = append(holds, h)
	}

	dup := holds[0]
	dup.ID = uuid.NewString()
	dup.QueuePosition = 4
	require.ErrorIs(t, repo.CreateHold(ctx, dup), errs.ErrAlreadyOnHold)

	pos, err := repo.MaxQueuePosition(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 3, pos)

	err = repo.WithTx(ctx, func(r repository.Repository) error {
		h := holds[1]
		h.Status = model.HoldCancelled
		h.QueuePosition = 0
		if err := r.SaveHold(ctx, h, model.HoldActive); err != nil {
			return err
		}
		return r.ShiftQueue(ctx, book.ID, 2)
	})
	require.NoError(t, err)

	active, err := repo.QueryHolds(ctx, repository.HoldFilter{BookID: book.ID, Statuses: []model.HoldStatus{model.HoldActive}})
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "a@example.com", active[0].UserEmail)
	require.Equal(t, 1, active[0].QueuePosition)
	require.Equal(t, "c@example.com", active[1].UserEmail)
	require.Equal(t, 2, active[1].QueuePosition)
}

func TestRepository_WithTxRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 2, 2)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(r repository.Repository) error {
		if _, err := r.UpdateBookStock(ctx, book.ID, -1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableStock)
}

func TestRepository_LockUserInTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRepo(t)
	book := createBook(t, repo, 1, 1)

	err := repo.WithTx(ctx, func(r repository.Repository) error {
		if err := r.LockUser(ctx, "reader@example.com"); err != nil {
			return err
		}
		return r.LockBook(ctx, book.ID)
	})
	require.NoError(t, err)

	err = repo.WithTx(ctx, func(r repository.Repository) error {
		return r.LockBook(ctx, "missing")
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
