// Package events publishes reservation lifecycle events to Kafka. Publishing
// is best-effort: the engine's conflict invariant never depends on the broker,
// and failures are logged, not returned to the caller.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationCancelled = "reservation.cancelled"
	TypeRoomDeleted          = "room.deleted"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Event is the envelope written to the reservation events topic. Key routes
// the event to a partition (room id, so per-room ordering holds).
type Event struct {
	ID         string
	Type       string
	Source     string
	Key        string
	OccurredAt time.Time
	Payload    []byte
}

// NewEvent builds an envelope with a fresh event id and JSON-encoded payload.
func NewEvent(eventType, source, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// ReservationEvent is the payload for reservation.created and
// reservation.cancelled.
type ReservationEvent struct {
	ReservationID string `json:"reservation_id"`
	RoomID        string `json:"room_id"`
	RoomTitle     string `json:"room_title,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	Date          string `json:"date"`
	Hours         []int  `json:"hours"`
}

// RoomDeletedEvent is the payload for room.deleted, emitted after a cascade.
type RoomDeletedEvent struct {
	RoomID              string `json:"room_id"`
	RoomTitle           string `json:"room_title"`
	ReservationsRemoved int64  `json:"reservations_removed"`
}
