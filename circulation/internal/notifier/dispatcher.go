package notifier

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrQueueFull = errors.New("notification queue is full")

const (
	defaultQueueSize = 1024
	defaultWorkers   = 2
	defaultRetries   = 3
	defaultBackoff   = 200 * time.Millisecond
	drainTimeout     = 5 * time.Second
)

// Dispatcher queues notifications in memory and delivers them from a small
// worker pool. Notify never waits for delivery.
type Dispatcher struct {
	log     *zap.Logger
	sender  Sender
	cb      circuit_breaker.CircuitBreaker
	queue   chan Message
	workers int
	retries int
	backoff time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) { d.queue = make(chan Message, n) }
}

func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) { d.workers = n }
}

func WithRetries(n int, backoff time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.retries = n
		d.backoff = backoff
	}
}

func WithBreaker(cb circuit_breaker.CircuitBreaker) DispatcherOption {
	return func(d *Dispatcher) { d.cb = cb }
}

func NewDispatcher(sender Sender, log *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	log = log.Named("dispatcher")
	d := &Dispatcher{
		log:    log,
		sender: sender,
		cb: circuit_breaker.New(20, 10*time.Second, 0.5, 3,
			circuit_breaker.WithOnStateChange(func(from, to circuit_breaker.Status) {
				log.Warn("notification sender breaker", zap.Stringer("from", from), zap.Stringer("to", to))
			})),
		queue:   make(chan Message, defaultQueueSize),
		workers: defaultWorkers,
		retries: defaultRetries,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Notify(_ context.Context, userEmail string, kind Kind, payload any) error {
	msg, err := NewMessage(uuid.NewString(), userEmail, kind, payload, time.Now())
	if err != nil {
		return err
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		return errors.Wrapf(ErrQueueFull, "%s for %s", kind, userEmail)
	}
}

// Run delivers until ctx is done, then flushes what is still queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	_ = g.Wait()
	d.drain()
	return nil
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	var err error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(d.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				d.log.Warn("notification dropped on shutdown", zap.String("id", msg.ID), zap.Error(err))
				return
			}
		}
		err = d.cb.Call(func() error {
			return d.sender.Send(ctx, msg)
		})
		if err == nil {
			d.log.Debug("notification sent", zap.String("id", msg.ID), zap.String("kind", string(msg.Kind)))
			return
		}
	}
	d.log.Error("notification dropped",
		zap.String("id", msg.ID),
		zap.String("kind", string(msg.Kind)),
		zap.String("user", msg.UserEmail),
		zap.Error(err))
}
