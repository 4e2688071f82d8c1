package domain

import "time"

type ServiceType string

const (
	ServiceGrooming ServiceType = "grooming"
	ServiceDaycare  ServiceType = "daycare"
)

type Station struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	IsActive     bool        `json:"isActive"`
	ServiceType  ServiceType `json:"serviceType"`
	DisplayOrder int32       `json:"displayOrder"`
	CreatedAt    time.Time   `json:"createdAt"`
	Version      int32       `json:"-"`
}
