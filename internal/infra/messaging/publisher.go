package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

var ErrBrokerUnavailable = errs.Category("event broker unavailable", errs.ErrRetryable)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ReservationMessage is the wire form of a reservation event. The routing key
// is the event type.
type ReservationMessage struct {
	EventType        string    `json:"event_type"`
	ReservationID    uuid.UUID `json:"reservation_id"`
	TenantID         uuid.UUID `json:"tenant_id"`
	PropertyID       uuid.UUID `json:"property_id"`
	BookingReference string    `json:"booking_reference"`
	Status           string    `json:"status"`
	GuestEmail       string    `json:"guest_email,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// Publisher sends reservation events to a topic exchange behind a circuit
// breaker, so a dead broker costs one fast failure per event instead of a
// publish timeout.
type Publisher struct {
	ch       Channel
	exchange string
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker
	logger   *slog.Logger
	now      func() time.Time
}

var _ shared.Notifier = (*Publisher)(nil)

func NewPublisher(ch Channel, cfg config.AMQPConfig, logger *slog.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	p := &Publisher{
		ch:       ch,
		exchange: cfg.Exchange,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
	p.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "amqp-publisher",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})
	return p
}

func (p *Publisher) Notify(ctx context.Context, event shared.ReservationEvent) error {
	body, err := json.Marshal(ReservationMessage{
		EventType:        event.Type,
		ReservationID:    event.ReservationID,
		TenantID:         event.TenantID,
		PropertyID:       event.PropertyID,
		BookingReference: event.BookingReference,
		Status:           event.Status,
		GuestEmail:       event.GuestEmail,
		Timestamp:        p.now().UTC(),
	})
	if err != nil {
		return errs.Wrap(err, "marshal reservation event")
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.publishJSON(ctx, event.Type, body)
	})
	if err != nil {
		if errs.Is(err, gobreaker.ErrOpenState) || errs.Is(err, gobreaker.ErrTooManyRequests) {
			return errs.Wrapf(ErrBrokerUnavailable, "publish %s", event.Type)
		}
		return errs.Wrapf(err, "publish %s", event.Type)
	}
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    p.now().UTC(),
			Body:         body,
		},
	)
}

// LogNotifier stands in for the broker when none is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event shared.ReservationEvent) error {
	n.logger.InfoContext(ctx, "reservation event",
		"event", event.Type,
		"reservation_id", event.ReservationID,
		"booking_reference", event.BookingReference,
		"status", event.Status)
	return nil
}
