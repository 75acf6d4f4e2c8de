package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID          int64            `json:"id"`
	ClientID    int64            `json:"client_id"`
	StaffID     int64            `json:"staff_id"`
	ServiceName string           `json:"service_name"`
	StartTime   LocalTime        `json:"start_time"`
	EndTime     LocalTime        `json:"end_time"`
	Notes       string           `json:"notes,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	CreatedAt   time.Time        `json:"created_at"`
}

// MarshalJSON renders the price as a JSON number, or null when unset.
func (a Appointment) MarshalJSON() ([]byte, error) {
	type alias Appointment
	var price *json.Number
	if a.Price != nil {
		n := json.Number(a.Price.String())
		price = &n
	}
	return json.Marshal(struct {
		alias
		Price *json.Number `json:"price"`
	}{alias(a), price})
}
