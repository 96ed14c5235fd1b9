package contracts

import (
	"context"
)

// Registry tracks the live UI connections of this node so they can be
// drained on shutdown.
type Registry interface {
	// Register adds a client under its participant id.
	Register(c Client)
	// Unregister removes the client.
	Unregister(c Client)
	// CloseAll closes every registered client.
	CloseAll()
}

// Client represents the minimal interface required for the Registry to
// communicate with an individual WebSocket connection.
type Client interface {
	ID() string
	ParticipantID() string
	Send(ctx context.Context, data []byte) error
	Close()
}
