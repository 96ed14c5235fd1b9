package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Notifier is an in-process ChangeNotifier.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]map[string]func()
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[string]func())}
}

func (n *Notifier) Publish(ctx context.Context, topic string) error {
	n.mu.RLock()
	fns := make([]func(), 0, len(n.subs[topic]))
	for _, fn := range n.subs[topic] {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *Notifier) Subscribe(ctx context.Context, topic string, onChange func()) (func(), error) {
	id := uuid.NewString()
	n.mu.Lock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[string]func())
	}
	n.subs[topic][id] = onChange
	n.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[topic], id)
			if len(n.subs[topic]) == 0 {
				delete(n.subs, topic)
			}
		})
	}, nil
}

// Subscribers reports how many listeners a topic has.
func (n *Notifier) Subscribers(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[topic])
}
