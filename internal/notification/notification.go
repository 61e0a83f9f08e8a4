package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ilumina/ilumina/internal/logging"
)

const (
	// KindVerificationCode carries a login one-time code.
	KindVerificationCode = "verification_code"
)

// ErrDeliveryFailed is returned when a downstream gateway did not accept a message.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a development implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination", logging.MaskPhone(message.Destination)),
		slog.String("body", message.Body),
	)
	return nil
}
