package model

import "time"

// Reservation pins a contiguous hour range to one room and one calendar day.
// Date is a day key normalized to 00:00 UTC, not an instant. Mask and Hours
// carry the same information; Hours exists so the storage layer can enforce
// per-hour uniqueness with a multikey index.
type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	Mask      uint32    `json:"mask" bson:"mask" validate:"required,lte=16777215"`
	Hours     []int     `json:"hours" bson:"hours" validate:"required,min=1,max=24,dive,min=0,max=23"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationRequest is the admission request body.
type ReservationRequest struct {
	RoomTitle string `json:"room_title" validate:"required,min=1,max=32"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartHour int    `json:"start_hour" validate:"min=0,max=23"`
	EndHour   int    `json:"end_hour" validate:"min=0,max=23"`
}

// ReservationParams is the owner-facing view of a committed reservation.
type ReservationParams struct {
	RoomTitle string `json:"room_title"`
	Date      string `json:"date"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}
