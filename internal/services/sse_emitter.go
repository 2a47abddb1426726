package services

import (
	"context"

	"github.com/filecanvas/filecanvas-backend/internal/realtime"
	"github.com/filecanvas/filecanvas-backend/internal/realtime/bus"
)

// SSEEmitter is the seam between services and realtime fanout: the hub
// directly in single-process deployments, the redis bus when events must
// reach every replica.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct{ Bus bus.Bus }

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
