package dto

// RegistrationResponse acknowledges an accepted registration.
type RegistrationResponse struct {
	Success bool `json:"success"`
}

// NotificationLogQuery captures delivery log listing parameters.
type NotificationLogQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=sent failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}
