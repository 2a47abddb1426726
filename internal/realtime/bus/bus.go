package bus

import (
	"context"

	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

// Bus fans SSE messages out across server instances. Publish sends a message
// to every instance's forwarder; StartForwarder delivers inbound messages to
// the local hub until ctx is done.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
