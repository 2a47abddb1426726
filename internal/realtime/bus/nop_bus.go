package bus

import (
	"context"

	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

type nopBus struct{}

// NewNopBus returns a Bus that drops everything. It stands in for the redis
// bus in tests and wherever cross-instance fanout is intentionally disabled;
// single-instance wiring bypasses the bus and emits straight into the hub.
func NewNopBus() Bus { return nopBus{} }

func (nopBus) Publish(ctx context.Context, msg realtime.SSEMessage) error { return nil }

func (nopBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	return nil
}

func (nopBus) Close() error { return nil }
