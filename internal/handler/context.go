package handler

type ContextKey string

var (
	RoleCtxKey          ContextKey = "role"
	SubCtxKey           ContextKey = "sub"
	RequestIDCtxKey     ContextKey = "requestID"
	StationCtx          ContextKey = "station"
	AppointmentIDCtxKey ContextKey = "appointmentID"
)
