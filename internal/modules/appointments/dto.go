package appointments

import (
	"imagestyle/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateAppointmentRequest struct {
	ClientID    int64            `json:"client_id" binding:"required,gt=0"`
	StaffID     int64            `json:"staff_id" binding:"required,gt=0"`
	ServiceName string           `json:"service_name" binding:"required"`
	StartTime   domain.LocalTime `json:"start_time"`
	EndTime     domain.LocalTime `json:"end_time"`
	Notes       string           `json:"notes"`
	Price       *decimal.Decimal `json:"price"`
}

type ListQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

type SlotsQuery struct {
	Date     string `form:"date" binding:"required"`
	StaffID  int64  `form:"staff_id" binding:"required,gt=0"`
	Duration int    `form:"duration"`
}

type SlotsResponse struct {
	Date            string   `json:"date"`
	StaffID         int64    `json:"staff_id"`
	DurationMinutes int      `json:"duration_minutes"`
	Slots           []string `json:"slots"`
}
