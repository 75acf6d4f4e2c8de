package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"imagestyle/internal/database"
	"imagestyle/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func mustLocal(t *testing.T, s string) domain.LocalTime {
	t.Helper()
	lt, err := domain.ParseLocalTime(s)
	require.NoError(t, err)
	return lt
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := &domain.User{Email: "Owner@Example.com ", Name: "Owner", Role: domain.RoleOwner, PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, &domain.User{Email: "owner@example.com", Name: "Other", Role: domain.RoleStaff, PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	exists, err := repo.ExistsByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAppointmentRepository_ListFiltersAndOrders(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()
	price := decimal.NewFromInt(45)

	for _, a := range []domain.Appointment{
		{ClientID: 1, StaffID: 1, ServiceName: "Late", StartTime: mustLocal(t, "2025-03-02T09:00:00"), EndTime: mustLocal(t, "2025-03-02T09:30:00")},
		{ClientID: 1, StaffID: 1, ServiceName: "Early", StartTime: mustLocal(t, "2025-03-01T10:00:00"), EndTime: mustLocal(t, "2025-03-01T10:45:00"), Price: &price},
		{ClientID: 1, StaffID: 2, ServiceName: "Outside", StartTime: mustLocal(t, "2025-02-28T23:50:00"), EndTime: mustLocal(t, "2025-03-01T00:20:00")},
	} {
		a := a
		require.NoError(t, repo.Create(ctx, &a))
	}

	all, err := repo.List(ctx, AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Outside", all[0].ServiceName)

	ranged, err := repo.List(ctx, AppointmentFilter{
		Start: mustLocal(t, "2025-03-01T00:00:00").Time,
		End:   mustLocal(t, "2025-03-02T23:59:59").Time,
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "Early", ranged[0].ServiceName)
	assert.Equal(t, "2025-03-01T10:00:00", ranged[0].StartTime.String())
	require.NotNil(t, ranged[0].Price)
	assert.True(t, ranged[0].Price.Equal(price))
	assert.Nil(t, ranged[1].Price)
}

func TestAppointmentRepository_BusyForStaff(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	a := domain.Appointment{ClientID: 1, StaffID: 7, ServiceName: "Haircut",
		StartTime: mustLocal(t, "2025-03-01T10:00:00"), EndTime: mustLocal(t, "2025-03-01T10:30:00")}
	require.NoError(t, repo.Create(ctx, &a))

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	busy, err := repo.BusyForStaff(ctx, 7, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, busy, 1)

	busy, err = repo.BusyForStaff(ctx, 8, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, busy)

	// touching the end is not busy
	busy, err = repo.BusyForStaff(ctx, 7, a.EndTime.Time, a.EndTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestAppointmentRepository_CreateIfFree(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	staff := &domain.User{Email: "stylist@example.com", Name: "Stylist", Role: domain.RoleStaff, PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, staff))
	other := &domain.User{Email: "other@example.com", Name: "Other", Role: domain.RoleStaff, PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, other))

	book := func(staffID int64, start, end string) error {
		a := domain.Appointment{ClientID: 1, StaffID: staffID, ServiceName: "Haircut",
			StartTime: mustLocal(t, start), EndTime: mustLocal(t, end)}
		return repo.CreateIfFree(ctx, &a)
	}

	require.NoError(t, book(staff.ID, "2025-03-01T10:00:00", "2025-03-01T11:00:00"))

	assert.ErrorIs(t, book(staff.ID, "2025-03-01T10:30:00", "2025-03-01T11:30:00"), ErrOverlap)
	assert.ErrorIs(t, book(staff.ID, "2025-03-01T09:30:00", "2025-03-01T12:00:00"), ErrOverlap)
	assert.NoError(t, book(staff.ID, "2025-03-01T11:00:00", "2025-03-01T11:30:00"), "back-to-back is allowed")
	assert.NoError(t, book(other.ID, "2025-03-01T10:00:00", "2025-03-01T11:00:00"))
	assert.ErrorIs(t, book(9999, "2025-03-01T10:00:00", "2025-03-01T11:00:00"), ErrNotFound)

	stored, err := repo.BusyForStaff(ctx, staff.ID,
		mustLocal(t, "2025-03-01T00:00:00").Time, mustLocal(t, "2025-03-02T00:00:00").Time)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
