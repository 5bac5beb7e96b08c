package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpenCB = errors.New("CB IS OPEN")

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

type Option func(cb *circuitBreaker)

// WithOnStateChange registers fn to be called, outside the breaker's lock, on
// every state switch.
func WithOnStateChange(fn func(from, to Status)) Option {
	return func(cb *circuitBreaker) {
		cb.onChange = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(cb *circuitBreaker) {
		cb.now = now
	}
}

type circuitBreaker struct {
	mu    sync.Mutex
	state Status

	// outcomes of the last len(window) calls, true means failed
	window   []bool
	next     int
	failures int

	threshold float64
	cooldown  time.Duration
	openedAt  time.Time

	// successful trial calls in a row needed to close again
	trials    int
	succeeded int

	now      func() time.Time
	onChange func(from, to Status)
}

// New returns a breaker that opens once the failed share of the last
// recordLength calls reaches percentile, lets a trial call through after timeout,
// and closes after recoveryRequests successful trial calls.
func New(recordLength int, timeout time.Duration, percentile float64, recoveryRequests int, opts ...Option) CircuitBreaker {
	if recordLength < 1 {
		recordLength = 1
	}
	cb := &circuitBreaker{
		state:     Closed,
		window:    make([]bool, recordLength),
		threshold: percentile,
		cooldown:  timeout,
		trials:    recoveryRequests,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

func (cb *circuitBreaker) Call(service func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := service()
	cb.record(err != nil)
	return err
}

func (cb *circuitBreaker) admit() error {
	cb.mu.Lock()
	if cb.state != Open {
		cb.mu.Unlock()
		return nil
	}
	if cb.now().Sub(cb.openedAt) <= cb.cooldown {
		cb.mu.Unlock()
		return ErrOpenCB
	}
	from := cb.switchTo(HalfOpen)
	cb.mu.Unlock()
	cb.notify(from, HalfOpen)
	return nil
}

func (cb *circuitBreaker) record(failed bool) {
	cb.mu.Lock()
	if cb.window[cb.next] {
		cb.failures--
	}
	cb.window[cb.next] = failed
	if failed {
		cb.failures++
	}
	cb.next = (cb.next + 1) % len(cb.window)

	from, to := cb.state, cb.state
	switch cb.state {
	case HalfOpen:
		if failed {
			to = Open
		} else if cb.succeeded++; cb.succeeded >= cb.trials {
			to = Closed
		}
	case Closed:
		if float64(cb.failures)/float64(len(cb.window)) >= cb.threshold {
			to = Open
		}
	}
	switch {
	case to == from:
	case to == Closed:
		cb.reset()
	default:
		cb.switchTo(to)
	}
	cb.mu.Unlock()
	cb.notify(from, to)
}

func (cb *circuitBreaker) switchTo(to Status) (from Status) {
	from = cb.state
	cb.state = to
	cb.succeeded = 0
	if to == Open {
		cb.openedAt = cb.now()
	}
	return from
}

func (cb *circuitBreaker) notify(from, to Status) {
	if from != to && cb.onChange != nil {
		cb.onChange(from, to)
	}
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.reset()
	cb.mu.Unlock()
	cb.notify(from, Closed)
}

func (cb *circuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.next, cb.failures, cb.succeeded = 0, 0, 0
	cb.state = Closed
}
