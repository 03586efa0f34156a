package messaging

import (
	"context"

	"go.uber.org/zap"
)

// LogSender is the development fallback when no brokers are configured. It
// logs each would-be delivery and reports success.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the delivery and succeeds
func (s *LogSender) Send(ctx context.Context, exchange, routingKey string, payload []byte) error {
	s.logger.Debug("message delivery (log only)",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.Int("payloadBytes", len(payload)),
	)
	return nil
}
