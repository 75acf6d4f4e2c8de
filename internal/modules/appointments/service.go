package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imagestyle/internal/domain"
	"imagestyle/internal/repository"
	"imagestyle/internal/scheduling"
)

// SlotConfig describes the business day used for availability.
type SlotConfig struct {
	OpenHour    int
	CloseHour   int
	StepMinutes int
}

type Service struct {
	appointments AppointmentRepository
	clients      ExistenceChecker
	staff        ExistenceChecker
	slots        SlotConfig
	listeners    []Listener
}

func NewService(appointments AppointmentRepository, clients, staff ExistenceChecker, slots SlotConfig, listeners ...Listener) *Service {
	return &Service{
		appointments: appointments,
		clients:      clients,
		staff:        staff,
		slots:        slots,
		listeners:    listeners,
	}
}

func (s *Service) Create(ctx context.Context, req CreateAppointmentRequest) (*domain.Appointment, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() || strings.TrimSpace(req.ServiceName) == "" {
		return nil, ErrValidation
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrValidation
	}
	if !req.EndTime.After(req.StartTime.Time) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.checkParticipants(ctx, req.ClientID, req.StaffID); err != nil {
		return nil, err
	}

	a := &domain.Appointment{
		ClientID:    req.ClientID,
		StaffID:     req.StaffID,
		ServiceName: strings.TrimSpace(req.ServiceName),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
		Price:       req.Price,
	}
	if err := s.appointments.CreateIfFree(ctx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, ErrSlotTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInvalidParticipants
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	for _, l := range s.listeners {
		l.AppointmentCreated(ctx, *a)
	}
	return a, nil
}

func (s *Service) checkParticipants(ctx context.Context, clientID, staffID int64) error {
	ok, err := s.clients.ExistsByID(ctx, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidParticipants
	}
	ok, err = s.staff.ExistsByID(ctx, staffID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidParticipants
	}
	return nil
}

// List returns appointments starting at or after start and ending at or
// before end. Empty bounds are open.
func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Appointment, error) {
	var f repository.AppointmentFilter
	if q.Start != "" {
		t, err := domain.ParseLocalTime(q.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: start", ErrValidation)
		}
		f.Start = t.Time
	}
	if q.End != "" {
		t, err := domain.ParseLocalTime(q.End)
		if err != nil {
			return nil, fmt.Errorf("%w: end", ErrValidation)
		}
		f.End = t.Time
	}
	return s.appointments.List(ctx, f)
}

// AvailableSlots lists the day's slots where the staff member is free for
// the whole duration.
func (s *Service) AvailableSlots(ctx context.Context, q SlotsQuery) (*SlotsResponse, error) {
	day, err := scheduling.ParseDate(q.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	duration := q.Duration
	if duration <= 0 {
		duration = s.slots.StepMinutes
	}
	duration = scheduling.TotalMinutes(0, duration)

	// The last slot of the day may run past midnight.
	until := day.Add(24*time.Hour + time.Duration(duration)*time.Minute)
	rows, err := s.appointments.BusyForStaff(ctx, q.StaffID, day, until)
	if err != nil {
		return nil, fmt.Errorf("load staff schedule: %w", err)
	}
	busy := make([]scheduling.Interval, 0, len(rows))
	for _, a := range rows {
		busy = append(busy, scheduling.Interval{Start: a.StartTime.Time, End: a.EndTime.Time})
	}

	all := scheduling.GenerateSlots(s.slots.OpenHour, s.slots.CloseHour, s.slots.StepMinutes)
	free, err := scheduling.AvailableSlots(all, q.Date, duration, busy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return &SlotsResponse{
		Date:            day.Format(scheduling.DateLayout),
		StaffID:         q.StaffID,
		DurationMinutes: duration,
		Slots:           free,
	}, nil
}
