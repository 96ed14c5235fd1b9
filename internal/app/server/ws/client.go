package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrClientClosed = errors.New("client closed")

// RuntimeClient owns one socket and serializes writes through a queue.
type RuntimeClient struct {
	ctx           context.Context
	cancel        context.CancelFunc
	ws            *WebSocket
	id            string
	participantID string
	out           chan []byte
	once          sync.Once
}

func NewClient(
	parent context.Context,
	ws *WebSocket,
	participantID string,
) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:           ctx,
		cancel:        cancel,
		ws:            ws,
		id:            uuid.NewString(),
		participantID: participantID,
		out:           make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) ID() string            { return c.id }
func (c *RuntimeClient) ParticipantID() string { return c.participantID }

// Done is closed once the client is closed.
func (c *RuntimeClient) Done() <-chan struct{} { return c.ctx.Done() }

func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer and the socket. The queue is left open so that a
// racing Send returns ErrClientClosed instead of panicking.
func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.ws.WriteMessage(data); err != nil {
				return
			}
		}
	}
}
