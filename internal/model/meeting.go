package model

const (
	MeetingScheduled = "scheduled"
	MeetingOngoing   = "ongoing"
	MeetingEnded     = "ended"
)

// Meeting is a meeting-room booking.
type Meeting struct {
	ID        ID     `json:"id"`
	UserID    ID     `json:"user_id,omitempty"`
	User      *User  `json:"user,omitempty"`
	RoomName  string `json:"room_name"`
	Agenda    string `json:"agenda"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// MeetingInput is the booking form.
type MeetingInput struct {
	RoomName  string `json:"room_name" binding:"required"`
	Agenda    string `json:"agenda" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// MeetingStats is the reply of /meetings/stats.
type MeetingStats struct {
	TopRooms           []RoomUsage `json:"top_rooms"`
	AvgDurationMinutes Number      `json:"avg_duration_minutes"`
}

type RoomUsage struct {
	RoomName string `json:"room_name"`
	Total    Number `json:"total"`
}
