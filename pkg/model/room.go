package model

import "time"

type Room struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title      string     `json:"title" bson:"title" validate:"required,min=1,max=32"`
	WeeklyMask WeeklyMask `json:"weekly_mask" bson:"weekly_mask"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RoomConfig is the admin request for creating a room or replacing its
// weekly closure schedule.
type RoomConfig struct {
	Title string `json:"title" validate:"required,min=1,max=32"`
	WeeklyHours
}

// CommonClosure is the global weekly closure schedule. At most one logical
// instance exists; absence is treated as fully open.
type CommonClosure struct {
	ID         string     `json:"-" bson:"_id"`
	WeeklyMask WeeklyMask `json:"weekly_mask" bson:"weekly_mask"`
}

// CommonClosureID keys the singleton document in the Config collection.
const CommonClosureID = "common_closure"
