package redis

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "revere:changed:"

// Notifier is a ChangeNotifier over Redis pub/sub. Every node keeps one
// PubSub connection and fans signals out to its local subscribers.
type Notifier struct {
	rdb    *redis.Client
	pubsub *redis.PubSub
	log    *slog.Logger

	mu   sync.Mutex
	subs map[string]map[string]func()
	done chan struct{}
}

func NewNotifier(ctx context.Context, log *slog.Logger, rdb *redis.Client) *Notifier {
	n := &Notifier{
		rdb:    rdb,
		pubsub: rdb.Subscribe(ctx),
		log:    log,
		subs:   make(map[string]map[string]func()),
		done:   make(chan struct{}),
	}
	go n.receive()
	return n
}

func channel(topic string) string {
	return channelPrefix + topic
}

func (n *Notifier) Publish(ctx context.Context, topic string) error {
	return n.rdb.Publish(ctx, channel(topic), "1").Err()
}

func (n *Notifier) Subscribe(ctx context.Context, topic string, onChange func()) (func(), error) {
	id := uuid.NewString()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.subs[topic]) == 0 {
		if err := n.pubsub.Subscribe(ctx, channel(topic)); err != nil {
			return nil, err
		}
		n.subs[topic] = make(map[string]func())
	}
	n.subs[topic][id] = onChange
	var once sync.Once
	return func() {
		once.Do(func() { n.unsubscribe(topic, id) })
	}, nil
}

func (n *Notifier) unsubscribe(topic, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs[topic], id)
	if len(n.subs[topic]) > 0 {
		return
	}
	delete(n.subs, topic)
	if err := n.pubsub.Unsubscribe(context.Background(), channel(topic)); err != nil {
		n.log.Warn("redis notifier - unsubscribe - failed", "topic", topic, "err", err)
	}
}

func (n *Notifier) receive() {
	defer close(n.done)
	for msg := range n.pubsub.Channel() {
		topic := strings.TrimPrefix(msg.Channel, channelPrefix)
		n.mu.Lock()
		fns := make([]func(), 0, len(n.subs[topic]))
		for _, fn := range n.subs[topic] {
			fns = append(fns, fn)
		}
		n.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

// Close drops the PubSub connection and waits for the receive loop.
func (n *Notifier) Close() error {
	err := n.pubsub.Close()
	<-n.done
	return err
}
