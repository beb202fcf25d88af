package port

import (
	"context"
	"io"

	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/event"
)

// AuditExporter renders a claim's audit trail into a document
type AuditExporter interface {
	// ContentType is the MIME type of the rendered document
	ContentType() string

	// Export writes the trail for c to w
	Export(ctx context.Context, c *entity.Claim, entries []*entity.AuditEntry, w io.Writer) error
}

// EventPublisher forwards committed claim events to an external broker
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event) error
	Close() error
}
