package scheduling

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"imagestyle/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// Booking is the body posted to create an appointment.
type Booking struct {
	ClientID    int64   `json:"client_id"`
	StaffID     int64   `json:"staff_id"`
	ServiceName string  `json:"service_name"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Notes       string  `json:"notes"`
	Price       float64 `json:"price"`
}

// DraftDetails carries the fields that are currently folded into notes.
type DraftDetails struct {
	Specialty       string          `json:"specialty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

// Draft holds a booking form between edits. Hours, Minutes and Price are
// seeded from the catalog and keep user overrides until SelectService is
// called again.
type Draft struct {
	ClientID    int64  `validate:"gt=0"`
	StaffID     int64  `validate:"gt=0"`
	Specialty   string `validate:"required"`
	ServiceName string `validate:"required"`
	Date        string `validate:"required"`
	StartTime   string `validate:"required"`
	Hours       int
	Minutes     int
	Price       decimal.Decimal
	Comment     string

	slots []string
}

// NewDraft starts a draft on the first service of specialty. A nil slots
// value means the default business-day slots.
func NewDraft(specialty string, slots []string) *Draft {
	if slots == nil {
		slots = DefaultSlots()
	}
	d := &Draft{Specialty: specialty, slots: slots}
	if services := Services(specialty); len(services) > 0 {
		d.applyService(services[0])
	}
	return d
}

// Slots returns the time-of-day choices the draft accepts.
func (d *Draft) Slots() []string {
	return slices.Clone(d.slots)
}

// SelectSpecialty switches the specialty. Duration and price are left alone.
func (d *Draft) SelectSpecialty(specialty string) {
	d.Specialty = specialty
}

// SelectService picks a catalog service and resets duration and price to its defaults.
func (d *Draft) SelectService(name string) error {
	svc, ok := LookupService(d.Specialty, name)
	if !ok {
		return fmt.Errorf("%w: %q is not offered under %q", ErrInvalidInput, name, d.Specialty)
	}
	d.applyService(svc)
	return nil
}

func (d *Draft) applyService(svc CatalogService) {
	d.ServiceName = svc.Name
	d.Hours, d.Minutes = SplitMinutes(svc.DefaultMinutes)
	d.Price = svc.DefaultPrice
}

func (d *Draft) SetHours(raw string) {
	d.Hours = ParseDurationField(raw)
}

func (d *Draft) SetMinutes(raw string) {
	d.Minutes = ParseDurationField(raw)
}

// SetPrice overrides the catalog price.
func (d *Draft) SetPrice(raw string) error {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || p.IsNegative() {
		return fmt.Errorf("%w: price %q", ErrInvalidInput, raw)
	}
	d.Price = p
	return nil
}

// SetClient and SetStaff accept the raw id fields from the form.
func (d *Draft) SetClient(raw string) error {
	id, err := parseID(raw)
	if err != nil {
		return fmt.Errorf("%w: client id %q", ErrInvalidInput, raw)
	}
	d.ClientID = id
	return nil
}

func (d *Draft) SetStaff(raw string) error {
	id, err := parseID(raw)
	if err != nil {
		return fmt.Errorf("%w: staff id %q", ErrInvalidInput, raw)
	}
	d.StaffID = id
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidInput
	}
	return id, nil
}

// DurationMinutes is the effective duration, never below five minutes.
func (d *Draft) DurationMinutes() int {
	return TotalMinutes(d.Hours, d.Minutes)
}

func (d *Draft) Details() DraftDetails {
	return DraftDetails{
		Specialty:       d.Specialty,
		Price:           d.Price,
		DurationMinutes: d.DurationMinutes(),
	}
}

// Notes folds specialty, price and duration into the free-text notes field.
// TODO: drop once appointments carry specialty and duration columns.
func (d *Draft) Notes() string {
	h, m := SplitMinutes(d.DurationMinutes())
	notes := fmt.Sprintf("Specialty: %s | Price: %s | Duration: %dh %dm", d.Specialty, d.Price.StringFixed(2), h, m)
	if c := strings.TrimSpace(d.Comment); c != "" {
		notes += " | " + c
	}
	return notes
}

// Validate checks the draft locally. Every failure wraps ErrInvalidInput.
func (d *Draft) Validate() error {
	if errs := validator.Validate(d); errs != nil {
		fields := make([]string, 0, len(errs))
		for f, tag := range errs {
			fields = append(fields, f+":"+tag)
		}
		slices.Sort(fields)
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
	}
	if d.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if _, err := ParseDate(d.Date); err != nil {
		return err
	}
	if _, _, err := ParseTimeOfDay(d.StartTime); err != nil {
		return err
	}
	if len(d.slots) > 0 && !slices.Contains(d.slots, d.StartTime) {
		return fmt.Errorf("%w: %s is not a bookable slot", ErrInvalidInput, d.StartTime)
	}
	return nil
}

// Booking validates the draft and resolves its start and end timestamps.
func (d *Draft) Booking() (Booking, error) {
	if err := d.Validate(); err != nil {
		return Booking{}, err
	}
	start, err := FormatStart(d.Date, d.StartTime)
	if err != nil {
		return Booking{}, err
	}
	end, err := ResolveEndTime(d.Date, d.StartTime, d.DurationMinutes())
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		ClientID:    d.ClientID,
		StaffID:     d.StaffID,
		ServiceName: d.ServiceName,
		StartTime:   start,
		EndTime:     end,
		Notes:       d.Notes(),
		Price:       d.Price.InexactFloat64(),
	}, nil
}
