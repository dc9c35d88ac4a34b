package notify

import (
	"context"
	"time"
)

// Event type constants recognised by downstream sinks.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationVerified  = "reservation.verified"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEventPayload captures the canonical data we emit for
// reservation lifecycle notifications.
type ReservationEventPayload struct {
	EventType     string            `json:"event_type"`
	ReservationID string            `json:"reservation_id"`
	SpotID        string            `json:"spot_id"`
	SpotName      string            `json:"spot_name,omitempty"`
	UserID        string            `json:"user_id"`
	Date          string            `json:"date"`
	TimeStart     string            `json:"time_start"`
	TimeEnd       string            `json:"time_end"`
	Status        string            `json:"status"`
	Verified      bool              `json:"verified"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Sink describes a destination capable of consuming reservation events.
type Sink interface {
	SendReservationEvent(ctx context.Context, payload ReservationEventPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload ReservationEventPayload) error

// SendReservationEvent implements the Sink interface.
func (f SinkFunc) SendReservationEvent(ctx context.Context, payload ReservationEventPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
