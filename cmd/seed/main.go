package main

import (
	"context"
	"os"
	"time"

	"imagestyle/internal/config"
	"imagestyle/internal/database"
	"imagestyle/internal/domain"
	"imagestyle/internal/pkg/logger"
	"imagestyle/internal/repository"
	"imagestyle/internal/scheduling"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logger.Init(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	clients := repository.NewClientRepository(db)
	appts := repository.NewAppointmentRepository(db)

	// ================== USERS ==================
	owner := ensureUser(ctx, log, users, "owner@example.com", "Salon Owner", domain.RoleOwner)
	staff := ensureUser(ctx, log, users, "stylist@example.com", "Maria Stylist", domain.RoleStaff)

	// ================== CLIENTS ==================
	existing, err := clients.List(ctx)
	if err != nil {
		log.Fatal("list clients failed", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("clients already present, skipping demo data", zap.Int("clients", len(existing)))
		return
	}

	demo := []domain.Client{
		{FirstName: "Ana", LastName: "Lopez", Phone: "555-0101", Email: "ana@example.com"},
		{FirstName: "Jane", LastName: "Doe", Phone: "555-0102"},
		{FirstName: "Li", LastName: "Wei", Email: "li.wei@example.com"},
	}
	for i := range demo {
		if err := clients.Create(ctx, &demo[i]); err != nil {
			log.Fatal("create client failed", zap.Error(err))
		}
	}

	// ================== APPOINTMENTS ==================
	today := time.Now().Format(scheduling.DateLayout)
	plan := []struct {
		client    domain.Client
		staffID   int64
		specialty string
		service   string
		start     string
	}{
		{demo[0], staff.ID, "Hair", "Haircut", "10:00"},
		{demo[1], staff.ID, "Nails", "Manicure", "11:00"},
		{demo[2], owner.ID, "Makeup", "Day Makeup", "14:30"},
	}
	for _, p := range plan {
		d := scheduling.NewDraft(p.specialty, scheduling.DefaultSlots())
		d.ClientID = p.client.ID
		d.StaffID = p.staffID
		d.Date = today
		d.StartTime = p.start
		if err := d.SelectService(p.service); err != nil {
			log.Fatal("unknown catalog service", zap.String("service", p.service), zap.Error(err))
		}
		b, err := d.Booking()
		if err != nil {
			log.Fatal("build booking failed", zap.Error(err))
		}

		start, err := domain.ParseLocalTime(b.StartTime)
		if err != nil {
			log.Fatal("bad start", zap.Error(err))
		}
		end, err := domain.ParseLocalTime(b.EndTime)
		if err != nil {
			log.Fatal("bad end", zap.Error(err))
		}
		price := d.Price
		a := domain.Appointment{
			ClientID:    b.ClientID,
			StaffID:     b.StaffID,
			ServiceName: b.ServiceName,
			StartTime:   start,
			EndTime:     end,
			Notes:       b.Notes,
			Price:       &price,
		}
		if err := appts.Create(ctx, &a); err != nil {
			log.Fatal("create appointment failed", zap.Error(err))
		}
	}

	log.Info("seed complete",
		zap.String("owner", "owner@example.com / password123"),
		zap.String("staff", "stylist@example.com / password123"),
		zap.Int("clients", len(demo)),
		zap.Int("appointments", len(plan)),
	)
}

func ensureUser(ctx context.Context, log *zap.Logger, users *repository.UserRepository, email, name string, role domain.UserRole) *domain.User {
	if u, err := users.GetByEmail(ctx, email); err == nil {
		return u
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password failed", zap.Error(err))
	}
	u := &domain.User{Email: email, Name: name, Role: role, PasswordHash: string(hash)}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("create user failed", zap.String("email", email), zap.Error(err))
	}
	log.Info("created user", zap.String("email", email), zap.String("role", string(role)))
	return u
}
