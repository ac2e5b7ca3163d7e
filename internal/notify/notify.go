// Package notify delivers composed messages to a chat channel.
package notify

import (
	"context"
	"fmt"
)

// Notifier delivers one message. Delivery may fail transiently.
//
//go:generate mockgen -package=monitor_test -destination=../monitor/mock_notifier_test.go -source=notify.go Notifier
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// DeliveryError reports that a message did not reach the channel.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
