package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// QueueNotifier publishes messages to a broker for the mail worker.
type QueueNotifier struct {
	pub Publisher
	now func() time.Time
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub, now: time.Now}
}

// Send publishes the message keyed by recipient so one recipient's mails stay
// ordered on partitioned brokers.
func (n *QueueNotifier) Send(ctx context.Context, kind Kind, to string, data map[string]string) error {
	body, err := json.Marshal(Message{
		Kind:      kind,
		To:        to,
		Data:      data,
		CreatedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s notification: %w", kind, err)
	}
	if err := n.pub.Publish(ctx, to, body); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", kind, err)
	}
	return nil
}
