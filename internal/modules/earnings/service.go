package earnings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"imagestyle/internal/cache"
	"imagestyle/internal/domain"
	"imagestyle/internal/earnings"
	"imagestyle/internal/pkg/logger"
	"imagestyle/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation error")

type AppointmentLister interface {
	List(ctx context.Context, f repository.AppointmentFilter) ([]domain.Appointment, error)
}

type Query struct {
	Preset string `form:"preset"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

type Service struct {
	appointments AppointmentLister
	cache        cache.Store
	lookups      *prometheus.CounterVec
	now          func() time.Time
	// generation is bumped on every new appointment and is part of the cache key.
	generation   atomic.Uint64
}

// NewService builds the earnings service. cache and lookups may be nil.
func NewService(appointments AppointmentLister, store cache.Store, lookups *prometheus.CounterVec) *Service {
	return &Service{
		appointments: appointments,
		cache:        store,
		lookups:      lookups,
		now:          time.Now,
	}
}

// Summary aggregates appointments in the requested window. Explicit start
// and end win over a preset; with neither, the window is today.
func (s *Service) Summary(ctx context.Context, q Query) (*earnings.Summary, error) {
	rng, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}
	start, end := rng.StartString(), rng.EndString()
	gen := s.generation.Load()
	key := "earnings:" + strconv.FormatUint(gen, 10) + ":" + start + "|" + end

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	list, err := s.appointments.List(ctx, repository.AppointmentFilter{
		Start: domain.NewLocalTime(rng.Start).Time,
		End:   domain.NewLocalTime(rng.End).Time,
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	summary := earnings.Aggregate(toEarningsItems(list), start, end)
	// An appointment stored while listing makes this summary stale.
	if s.generation.Load() == gen {
		s.toCache(ctx, key, summary)
	}
	return &summary, nil
}

func (s *Service) resolveRange(q Query) (earnings.Range, error) {
	if q.Start != "" || q.End != "" {
		if q.Start == "" || q.End == "" {
			return earnings.Range{}, fmt.Errorf("%w: start and end go together", ErrValidation)
		}
		start, err := domain.ParseLocalTime(q.Start)
		if err != nil {
			return earnings.Range{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		end, err := domain.ParseLocalTime(q.End)
		if err != nil {
			return earnings.Range{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if end.Before(start.Time) {
			return earnings.Range{}, fmt.Errorf("%w: end before start", ErrValidation)
		}
		return earnings.Range{Start: start.Time, End: end.Time}, nil
	}

	rng, err := earnings.PresetRange(q.Preset, s.now())
	if err != nil {
		return earnings.Range{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return rng, nil
}

// AppointmentCreated drops cached summaries.
func (s *Service) AppointmentCreated(ctx context.Context, _ domain.Appointment) {
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.Purge(ctx)
	}
}

func (s *Service) fromCache(ctx context.Context, key string) (*earnings.Summary, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		s.count("miss")
		return nil, false
	}
	var summary earnings.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		logger.L().Warn("discarding unreadable earnings cache entry", zap.String("key", key), zap.Error(err))
		s.count("miss")
		return nil, false
	}
	s.count("hit")
	return &summary, true
}

func (s *Service) toCache(ctx context.Context, key string, summary earnings.Summary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw)
}

func (s *Service) count(result string) {
	if s.lookups != nil {
		s.lookups.WithLabelValues(result).Inc()
	}
}

func toEarningsItems(list []domain.Appointment) []earnings.Appointment {
	out := make([]earnings.Appointment, 0, len(list))
	for _, a := range list {
		item := earnings.Appointment{
			ID:          a.ID,
			ClientID:    a.ClientID,
			StaffID:     a.StaffID,
			ServiceName: a.ServiceName,
			StartTime:   a.StartTime.String(),
			EndTime:     a.EndTime.String(),
			Notes:       a.Notes,
		}
		if a.Price != nil {
			item.Price = earnings.PriceOf(*a.Price)
		}
		out = append(out, item)
	}
	return out
}
