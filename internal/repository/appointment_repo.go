package repository

import (
	"context"
	"errors"
	"time"

	"imagestyle/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrOverlap is returned when the staff member is already booked for part of the interval.
	ErrOverlap  = errors.New("staff member already booked")
	ErrNotFound = errors.New("record not found")
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID          int64               `gorm:"column:id;primaryKey"`
	ClientID    int64               `gorm:"column:client_id;not null;index"`
	StaffID     int64               `gorm:"column:staff_id;not null;index:idx_appointments_staff_start"`
	ServiceName string              `gorm:"column:service_name;not null"`
	StartTime   time.Time           `gorm:"column:start_time;not null;index:idx_appointments_staff_start"`
	EndTime     time.Time           `gorm:"column:end_time;not null"`
	Notes       *string             `gorm:"column:notes;type:text"`
	Price       decimal.NullDecimal `gorm:"column:price;type:numeric(10,2)"`
	CreatedAt   time.Time           `gorm:"column:created_at"`
}

func (appointmentModel) TableName() string { return "appointments" }

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	var price *decimal.Decimal
	if m.Price.Valid {
		v := m.Price.Decimal
		price = &v
	}
	return &domain.Appointment{
		ID:          m.ID,
		ClientID:    m.ClientID,
		StaffID:     m.StaffID,
		ServiceName: m.ServiceName,
		StartTime:   domain.NewLocalTime(m.StartTime.UTC()),
		EndTime:     domain.NewLocalTime(m.EndTime.UTC()),
		Notes:       notes,
		Price:       price,
		CreatedAt:   m.CreatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	var notes *string
	if a.Notes != "" {
		v := a.Notes
		notes = &v
	}
	var price decimal.NullDecimal
	if a.Price != nil {
		price = decimal.NewNullDecimal(*a.Price)
	}
	return appointmentModel{
		ID:          a.ID,
		ClientID:    a.ClientID,
		StaffID:     a.StaffID,
		ServiceName: a.ServiceName,
		StartTime:   a.StartTime.Time,
		EndTime:     a.EndTime.Time,
		Notes:       notes,
		Price:       price,
		CreatedAt:   a.CreatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*a = *toDomainAppointment(m)
	return nil
}

// CreateIfFree stores a unless its staff member already has an appointment
// intersecting [StartTime, EndTime). The staff row stays locked until commit,
// so concurrent bookings for one staff member run one after another.
func (r *AppointmentRepository) CreateIfFree(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff userModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", m.StaffID).
			First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&appointmentModel{}).
			Where("staff_id = ? AND start_time < ? AND end_time > ?", m.StaffID, m.EndTime, m.StartTime).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return err
	}
	*a = *toDomainAppointment(m)
	return nil
}

// AppointmentFilter bounds a listing. Zero values leave that side open.
type AppointmentFilter struct {
	Start time.Time
	End   time.Time
}

// List returns appointments with start_time >= Start and end_time <= End,
// ordered by start time.
func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&appointmentModel{})
	if !f.Start.IsZero() {
		q = q.Where("start_time >= ?", f.Start)
	}
	if !f.End.IsZero() {
		q = q.Where("end_time <= ?", f.End)
	}

	var rows []appointmentModel
	if err := q.Order("start_time ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainAppointments(rows), nil
}

// BusyForStaff returns the staff member's appointments that intersect [from, to).
func (r *AppointmentRepository) BusyForStaff(ctx context.Context, staffID int64, from, to time.Time) ([]domain.Appointment, error) {
	var rows []appointmentModel
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND start_time < ? AND end_time > ?", staffID, to, from).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainAppointments(rows), nil
}

func toDomainAppointments(rows []appointmentModel) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out
}
