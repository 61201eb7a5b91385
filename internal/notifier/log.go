// Package notifier carries verification codes out-of-band. Real email
// and SMS transports live outside this module; the log notifier is the
// development fallback that prints the code instead of sending it.
package notifier

import (
	"context"

	"github.com/dkovalev/sociable/internal/logger"
	"github.com/dkovalev/sociable/internal/model"
)

// Log writes verification codes to the application log.
type Log struct {
	logger *logger.Logger
}

var _ model.Notifier = (*Log)(nil)

// NewLog creates a log-backed notifier.
func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

// Send logs the code instead of delivering it.
func (n *Log) Send(ctx context.Context, channel model.Channel, destination, code string) error {
	n.logger.Info("verification code issued",
		"channel", string(channel),
		"destination", destination,
		"code", code)
	return nil
}
