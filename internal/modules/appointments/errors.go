package appointments

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidTimeRange    = errors.New("end_time must be after start_time")
	ErrInvalidParticipants = errors.New("invalid client or staff id")
	ErrSlotTaken           = errors.New("staff member is already booked for this time")
)
