package appointments

import (
	"context"
	"time"

	"imagestyle/internal/domain"
	"imagestyle/internal/repository"
)

type AppointmentRepository interface {
	// CreateIfFree returns repository.ErrOverlap when the staff member is taken.
	CreateIfFree(ctx context.Context, a *domain.Appointment) error
	List(ctx context.Context, f repository.AppointmentFilter) ([]domain.Appointment, error)
	BusyForStaff(ctx context.Context, staffID int64, from, to time.Time) ([]domain.Appointment, error)
}

// ExistenceChecker is implemented by the client and user repositories.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// Listener is told about every appointment after it is stored.
type Listener interface {
	AppointmentCreated(ctx context.Context, a domain.Appointment)
}
