package dispatcher

import (
	"context"

	"github.com/garyjia/tpa-claims/internal/domain/event"
)

// Handler processes claim events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name        string
	EventType   event.Type
	Handler     Handler
	Description string
}

// wildcard is the pseudo event type used for handlers that receive every event
const wildcard event.Type = "*"
