package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/usecase/shared"
)

const sideEffectTimeout = 5 * time.Second

// SideEffects runs post-commit notification and audit calls off the request
// path. Failures are logged and never reach the caller.
type SideEffects struct {
	notifier shared.Notifier
	audit    shared.AuditSink
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewSideEffects(notifier shared.Notifier, audit shared.AuditSink, logger *slog.Logger) *SideEffects {
	return &SideEffects{notifier: notifier, audit: audit, logger: logger}
}

func (s *SideEffects) Dispatch(ctx context.Context, eventType string, res *reservation.Reservation, actor shared.Actor) {
	event := shared.ReservationEvent{
		Type:             eventType,
		ReservationID:    res.ID(),
		TenantID:         res.TenantID(),
		PropertyID:       res.PropertyID(),
		BookingReference: res.BookingReference(),
		Status:           res.Status().String(),
		GuestEmail:       res.Guest().Email,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()

		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, event); err != nil {
				s.logger.Warn("notification failed",
					"event", event.Type,
					"reservation_id", event.ReservationID,
					"error", err.Error())
			}
		}
		if s.audit != nil {
			if err := s.audit.Record(ctx, event.Type, event.ReservationID, actor); err != nil {
				s.logger.Warn("audit record failed",
					"event", event.Type,
					"reservation_id", event.ReservationID,
					"error", err.Error())
			}
		}
	}()
}

// Wait blocks until every dispatched side effect has finished.
func (s *SideEffects) Wait() {
	s.wg.Wait()
}
