package domain

import "time"

// AppointmentCategory 区分移动请求中携带的业务字段
type AppointmentCategory string

const (
	CategoryGrooming AppointmentCategory = "grooming"
	CategoryDaycare  AppointmentCategory = "daycare"
	CategoryPersonal AppointmentCategory = "personal"
)

type Appointment struct {
	ID            string      `json:"id"`
	StationID     string      `json:"stationID"`
	StartAt       time.Time   `json:"startAt"`
	EndAt         time.Time   `json:"endAt"`
	ServiceType   ServiceType `json:"serviceType"`
	CustomerID    *string     `json:"customerID"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	CustomerEmail string      `json:"customerEmail"`
	DogName       string      `json:"dogName"`
	TreatmentID   *string     `json:"treatmentID"`
	IsPersonal    bool        `json:"isPersonal"`
	PersonalName  string      `json:"personalName"`
	Description   string      `json:"description"`
	HourSelection *string     `json:"hourSelection"` // 按小时计费的日托预约所选的开始时刻，格式为 HH:MM
	IsTrial       bool        `json:"isTrial"`
	CreatedAt     time.Time   `json:"createdAt"`
	Version       int32       `json:"version"`
}

func (a *Appointment) Category() AppointmentCategory {
	switch {
	case a.IsPersonal:
		return CategoryPersonal
	case a.ServiceType == ServiceDaycare:
		return CategoryDaycare
	default:
		return CategoryGrooming
	}
}

func (a *Appointment) Duration() time.Duration {
	return a.EndAt.Sub(a.StartAt)
}

// PendingResize 记录一次尚未确认的拉伸操作，取消时用于恢复原来的结束时间
type PendingResize struct {
	AppointmentID    string        `json:"appointmentID"`
	OriginalEnd      time.Time     `json:"originalEnd"`
	ProposedEnd      time.Time     `json:"proposedEnd"`
	OriginalDuration time.Duration `json:"originalDuration"`
	ProposedDuration time.Duration `json:"proposedDuration"`
}
