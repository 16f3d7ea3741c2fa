// Package notify carries account emails (welcome, verification, password
// reset) from the services to the mail worker.
package notify

import (
	"context"
	"time"
)

// Kind names the email template to use.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Template data keys.
const (
	DataName = "name"
	DataCode = "code"
)

// Message is the unit exchanged between the notifier and the mail worker.
type Message struct {
	Kind      Kind              `json:"kind"`
	To        string            `json:"to"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier delivers (or enqueues) an email. Callers treat errors as
// non-fatal.
type Notifier interface {
	Send(ctx context.Context, kind Kind, to string, data map[string]string) error
}

// Publisher is a message broker producer.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}
