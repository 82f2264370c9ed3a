// internal/domain/homework/journal.go
package homework

import (
	"context"
	"time"
)

// Delivery is a notification that reached the chat.
type Delivery struct {
	ID           int64
	HomeworkName string
	Status       Status
	Message      string
	SentAt       time.Time
}

// Journal keeps an audit trail of delivered notifications.
// It is never used to restore poll state.
type Journal interface {
	Record(ctx context.Context, d *Delivery) error
	ListRecent(ctx context.Context, limit int) ([]*Delivery, error)
}
