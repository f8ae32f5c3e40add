package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
)

// defaultActionLimit caps the recent-actions feed when no limit is given.
const defaultActionLimit = 10

type actionStore interface {
	RecentActions(ctx context.Context, limit int) ([]models.Action, error)
}

// ActionService reads the append-only audit trail.
type ActionService struct {
	store  actionStore
	logger *zap.Logger
}

// NewActionService constructs an ActionService.
func NewActionService(st actionStore, logger *zap.Logger) *ActionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionService{store: st, logger: logger}
}

// Recent returns the newest actions first, capped at limit.
func (s *ActionService) Recent(ctx context.Context, limit int) ([]models.Action, error) {
	if limit <= 0 {
		limit = defaultActionLimit
	}
	actions, err := s.store.RecentActions(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list actions")
	}
	return actions, nil
}
