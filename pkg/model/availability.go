package model

// DayAvailability lists the hours still free to reserve on one day.
type DayAvailability struct {
	Date      string `json:"date"`
	FreeHours []int  `json:"free_hours"`
}

// RoomRangeAvailability is the per-day availability of one room over a
// contiguous date range.
type RoomRangeAvailability struct {
	RoomTitle string            `json:"room_title"`
	Days      []DayAvailability `json:"days"`
}

// RoomDayAvailability is the availability of one room on a fixed day.
type RoomDayAvailability struct {
	RoomTitle string `json:"room_title"`
	FreeHours []int  `json:"free_hours"`
}

// RoomsDayAvailability lists, for a fixed day, every room that still has at
// least one free hour.
type RoomsDayAvailability struct {
	Date  string                `json:"date"`
	Rooms []RoomDayAvailability `json:"rooms"`
}
