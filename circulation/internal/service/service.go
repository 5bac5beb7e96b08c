package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/config"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"go.uber.org/zap"
)

// Notifier is the outbound side of the engine. Implementations must not block
// on delivery.
type Notifier interface {
	Notify(ctx context.Context, userEmail string, kind notifier.Kind, payload any) error
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var utcClock = ClockFunc(func() time.Time { return time.Now().UTC() })

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	inventory *Inventory
	notifier  Notifier
	policy    config.Policy
	clock     Clock
	locks     *keyLocker
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(repo repository.Repository, n Notifier, policy config.Policy, log *zap.Logger, opts ...Option) *Service {
	log = log.Named("circulation")
	s := &Service{
		log:       log,
		repo:      repo,
		inventory: NewInventory(log),
		notifier:  n,
		policy:    policy,
		clock:     utcClock,
		locks:     newKeyLocker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// lockBook serializes every stock or queue mutation of one title in this process.
func (s *Service) lockBook(bookID string) func() {
	return s.locks.Lock(bookKey(bookID))
}

func (s *Service) notify(ctx context.Context, userEmail string, kind notifier.Kind, payload any) {
	if err := s.notifier.Notify(ctx, userEmail, kind, payload); err != nil {
		s.log.Warn("notify", zap.String("user", userEmail), zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *Service) notifyHoldReady(ctx context.Context, h model.Hold, title string) {
	pickupBy := h.ExpiryDate
	s.notify(ctx, h.UserEmail, notifier.KindHoldReady, model.HoldReadyPayload{
		HoldID:   h.ID,
		BookID:   h.BookID,
		Title:    title,
		PickupBy: pickupBy,
	})
}

func (s *Service) notifyHoldExpired(ctx context.Context, h model.Hold, title string, at time.Time) {
	s.notify(ctx, h.UserEmail, notifier.KindHoldExpired, model.HoldExpiredPayload{
		HoldID:    h.ID,
		BookID:    h.BookID,
		Title:     title,
		ExpiredAt: at,
	})
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, userEmail string) ([]model.Transaction, error) {
	return s.repo.QueryTransactions(ctx, repository.TransactionFilter{UserEmail: userEmail})
}

func (s *Service) GetHold(ctx context.Context, id string) (model.Hold, error) {
	return s.repo.GetHold(ctx, id)
}

// ListHolds returns the open holds of a title in queue order, ready holds first.
func (s *Service) ListHolds(ctx context.Context, bookID string) ([]model.Hold, error) {
	return s.repo.QueryHolds(ctx, repository.HoldFilter{
		BookID:   bookID,
		Statuses: []model.HoldStatus{model.HoldActive, model.HoldReady},
	})
}
