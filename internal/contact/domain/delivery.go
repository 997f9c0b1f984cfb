package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeliveryStatus tracks operator follow-up on a failed send.
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliveryResolved DeliveryStatus = "resolved"
)

// ParseDeliveryStatus accepts the two known statuses, case-insensitively.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	switch DeliveryStatus(strings.ToLower(strings.TrimSpace(value))) {
	case DeliveryPending:
		return DeliveryPending, nil
	case DeliveryResolved:
		return DeliveryResolved, nil
	}
	return "", fmt.Errorf("unknown delivery status %q", value)
}

// FailedDelivery is a submission the relay could not deliver, kept so the
// business can still answer the visitor.
type FailedDelivery struct {
	ID         string
	Submission Submission
	RemoteIP   string
	UserAgent  string
	Error      string
	Status     DeliveryStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
