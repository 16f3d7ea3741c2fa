package notify

import (
	"context"

	"pasar/internal/logging"
)

// LogNotifier records that a mail would have been sent. The template data is
// never logged because it carries one-time codes.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, kind Kind, to string, _ map[string]string) error {
	n.log.Info(ctx, "notification not delivered: no transport configured", "kind", kind, "to", to)
	return nil
}
