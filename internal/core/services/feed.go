package services

import (
	"context"
	"log/slog"
	"revere/internal/core/contracts"
	"sync"
	"time"
)

// Subscription is the handle of a live feed. The feed delivers a fresh
// snapshot once on start and again after every (coalesced) change signal,
// one delivery at a time.
type Subscription struct {
	mu     sync.Mutex
	closed bool
	wake   chan struct{}
	stop   chan struct{}
	unsubs []func()
	once   sync.Once
}

// Cancel stops the feed. It is idempotent and returns only after an
// in-flight delivery has finished, so no callback runs once it returns.
// It must not be called from inside the feed's own callback.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		for _, unsub := range s.unsubs {
			unsub()
		}
		s.mu.Lock()
		s.closed = true
		close(s.stop)
		s.mu.Unlock()
	})
}

// Done is closed when the feed has stopped, by Cancel or after a failure.
func (s *Subscription) Done() <-chan struct{} {
	return s.stop
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

type feed[T any] struct {
	log     *slog.Logger
	name    string
	timeout time.Duration
	fetch   func(ctx context.Context) (T, error)
	deliver func(T)
	onErr   func(error)
}

// start registers the feed on every topic and launches its delivery loop.
// ctx only scopes registration; the loop outlives it until Cancel.
func (f feed[T]) start(ctx context.Context, notifier contracts.ChangeNotifier, topics ...string) (*Subscription, error) {
	s := &Subscription{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	for _, topic := range topics {
		unsub, err := notifier.Subscribe(ctx, topic, s.signal)
		if err != nil {
			s.Cancel()
			return nil, err
		}
		s.unsubs = append(s.unsubs, unsub)
	}
	s.signal()
	go f.run(context.WithoutCancel(ctx), s)
	return s, nil
}

func (f feed[T]) run(base context.Context, s *Subscription) {
	for {
		select {
		case <-s.stop:
			return
		case <-s.wake:
		}
		ctx, cancel := context.WithTimeout(base, f.timeout)
		snapshot, err := f.fetch(ctx)
		cancel()

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if err != nil {
			f.log.Error("feed - fetch - snapshot failed, feed stopped", "feed", f.name, "err", err)
			if f.onErr != nil {
				f.onErr(err)
			}
			s.mu.Unlock()
			s.Cancel()
			return
		}
		f.deliver(snapshot)
		s.mu.Unlock()
	}
}
