package domain

type NotificationRecipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type NotificationMessage struct {
	ID   string                `json:"id"`
	Type string                `json:"type"`
	To   NotificationRecipient `json:"to"`
	Data any                   `json:"data"`
}

const NotificationAppointmentMoved = "appointment_moved"

type AppointmentMovedData struct {
	CustomerName string `json:"customerName"`
	DogName      string `json:"dogName"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}
