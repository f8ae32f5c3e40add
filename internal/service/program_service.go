package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
)

type programStore interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
}

// ProgramService exposes the seeded academic programs. Programs are
// immutable once created, so there is no write path here.
type ProgramService struct {
	store  programStore
	logger *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(st programStore, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{store: st, logger: logger}
}

// List returns every program.
func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}
