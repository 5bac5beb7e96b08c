package notifier_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []notifier.Message
}

func (s *recordingSender) Send(_ context.Context, msg notifier.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) delivered() []notifier.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifier.Message(nil), s.sent...)
}

func TestDispatcher_Delivers(t *testing.T) {
	sender := &recordingSender{}
	d := notifier.NewDispatcher(sender, zap.NewNop(), notifier.WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()

	pickupBy := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	for _, user := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, d.Notify(ctx, user, notifier.KindHoldReady, model.HoldReadyPayload{
			HoldID:   "h-" + user,
			BookID:   "b-1",
			Title:    "Dune",
			PickupBy: pickupBy,
		}))
	}

	require.Eventually(t, func() bool { return len(sender.delivered()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	sent := sender.delivered()
	assert.Equal(t, "a@example.com", sent[0].UserEmail)
	assert.Equal(t, notifier.KindHoldReady, sent[0].Kind)

	var payload model.HoldReadyPayload
	require.NoError(t, json.Unmarshal(sent[0].Payload, &payload))
	assert.Equal(t, "h-a@example.com", payload.HoldID)
	assert.True(t, payload.PickupBy.Equal(pickupBy))
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := notifier.NewDispatcher(&recordingSender{}, zap.NewNop(), notifier.WithQueueSize(1))
	ctx := context.Background()

	require.NoError(t, d.Notify(ctx, "a@example.com", notifier.KindOverdue, model.OverduePayload{}))
	err := d.Notify(ctx, "b@example.com", notifier.KindOverdue, model.OverduePayload{})
	require.ErrorIs(t, err, notifier.ErrQueueFull)
}

func TestDispatcher_Retries(t *testing.T) {
	sender := &recordingSender{failures: 2}
	d := notifier.NewDispatcher(sender, zap.NewNop(),
		notifier.WithWorkers(1),
		notifier.WithRetries(3, time.Millisecond),
		notifier.WithBreaker(circuit_breaker.New(10, time.Millisecond, 0.9, 1)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	require.NoError(t, d.Notify(ctx, "a@example.com", notifier.KindHoldExpired, model.HoldExpiredPayload{HoldID: "h-1"}))
	require.Eventually(t, func() bool { return len(sender.delivered()) == 1 }, time.Second, 5*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, 3, sender.attempts)
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	d := notifier.NewDispatcher(sender, zap.NewNop())

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Notify(ctx, "a@example.com", notifier.KindOverdue, model.OverduePayload{DaysOverdue: i}))
	}

	stopped, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, d.Run(stopped))
	require.Len(t, sender.delivered(), 5)
}
