package messaging

import (
	"log/slog"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connect dials the broker and declares the events exchange. With no URL
// configured it returns a LogNotifier and a no-op cleanup.
func Connect(cfg config.AMQPConfig, logger *slog.Logger) (shared.Notifier, func(), error) {
	if cfg.URL == "" {
		logger.Info("AMQP_URL not set, reservation events are logged only")
		return NewLogNotifier(logger), func() {}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "dial amqp")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "open amqp channel")
	}
	if err := declareEventsExchange(ch, cfg.Exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrapf(err, "declare exchange %s", cfg.Exchange)
	}

	cleanup := func() {
		if err := ch.Close(); err != nil {
			logger.Warn("failed to close amqp channel", "error", err)
		}
		if err := conn.Close(); err != nil {
			logger.Warn("failed to close amqp connection", "error", err)
		}
	}
	return NewPublisher(ch, cfg, logger), cleanup, nil
}

func declareEventsExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
