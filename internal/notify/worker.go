package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"pasar/internal/logging"
)

// Deliverer sends one message to its recipient.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// Worker turns broker payloads into deliveries.
type Worker struct {
	mailer Deliverer
	log    logging.Logger
}

func NewWorker(mailer Deliverer, log logging.Logger) *Worker {
	return &Worker{mailer: mailer, log: log.With("component", "mail_worker")}
}

// HandleMessage decodes and delivers one payload. Failed deliveries are
// logged and returned; they are not retried.
func (w *Worker) HandleMessage(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		w.log.Error(ctx, "dropping undecodable notification", "error", err)
		return fmt.Errorf("failed to decode notification: %w", err)
	}
	if err := w.mailer.Deliver(ctx, msg); err != nil {
		w.log.Warn(ctx, "notification delivery failed", "kind", msg.Kind, "to", msg.To, "error", err)
		return err
	}
	w.log.Info(ctx, "notification delivered", "kind", msg.Kind, "to", msg.To)
	return nil
}
