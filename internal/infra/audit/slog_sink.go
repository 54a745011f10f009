package audit

import (
	"context"
	"log/slog"

	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// SlogSink writes audit records as structured log lines under the "audit"
// group so they can be routed separately by the log shipper.
type SlogSink struct {
	logger *slog.Logger
}

var _ shared.AuditSink = (*SlogSink)(nil)

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.WithGroup("audit")}
}

func (s *SlogSink) Record(ctx context.Context, action string, entityID uuid.UUID, actor shared.Actor) error {
	s.logger.InfoContext(ctx, "audit record",
		slog.String("action", action),
		slog.String("entity_id", entityID.String()),
		slog.String("user_id", actor.UserID.String()),
		slog.String("tenant_id", actor.TenantID.String()))
	return nil
}
