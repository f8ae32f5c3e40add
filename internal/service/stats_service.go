package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
)

type statsStore interface {
	ScheduleCount(ctx context.Context) (int, error)
	TeacherCount(ctx context.Context) (int, error)
	CourseCount(ctx context.Context) (int, error)
}

// StatsService aggregates store cardinalities for the dashboard.
type StatsService struct {
	store  statsStore
	logger *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(st statsStore, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{store: st, logger: logger}
}

// Summary returns the schedule, teacher and course counts.
func (s *StatsService) Summary(ctx context.Context) (*models.Stats, error) {
	scheduleCount, err := s.store.ScheduleCount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count schedules")
	}
	teacherCount, err := s.store.TeacherCount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	courseCount, err := s.store.CourseCount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}

	return &models.Stats{
		ScheduleCount: scheduleCount,
		TeacherCount:  teacherCount,
		CourseCount:   courseCount,
	}, nil
}
