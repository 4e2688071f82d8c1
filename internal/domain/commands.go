package domain

import "time"

// MoveCommand 是提交给存储层的移动请求，同时携带移动前后的工位和时间
type MoveCommand struct {
	AppointmentID   string
	Category        AppointmentCategory
	ExpectedVersion int32
	OldStationID    string
	OldStartAt      time.Time
	OldEndAt        time.Time
	NewStationID    string
	NewStartAt      time.Time
	NewEndAt        time.Time
	HourSelection   *string
	IsTrial         *bool
}

type PersonalCommand struct {
	AppointmentID   string
	ExpectedVersion int32
	Name            string
	Description     string
	StationID       string
	StartAt         time.Time
	EndAt           time.Time
}
