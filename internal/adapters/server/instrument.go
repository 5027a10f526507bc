package server

import (
	"context"

	"github.com/farran/tavla/internal/app"
)

// instrumentedService wraps a BoardService and records transport-level metrics.
type instrumentedService struct {
	inner   BoardService
	metrics *Metrics
}

// instrumentService decorates svc with metric observation.
func instrumentService(svc BoardService, metrics *Metrics) BoardService {
	if metrics == nil {
		return svc
	}
	return &instrumentedService{inner: svc, metrics: metrics}
}

func (s *instrumentedService) AnalyzeBoard(ctx context.Context, boardID string) (app.BoardAlignment, error) {
	return s.inner.AnalyzeBoard(ctx, boardID)
}

func (s *instrumentedService) Regenerate(ctx context.Context, boardID string, preserveWIP bool) (app.RegenerateResult, error) {
	result, err := s.inner.Regenerate(ctx, boardID, preserveWIP)
	s.metrics.ObserveSync("regenerate", err, result.ColumnsCreated, result.ColumnsRemoved)
	return result, err
}

func (s *instrumentedService) Sync(ctx context.Context, boardID string, removeOrphans bool) (app.SyncResult, error) {
	result, err := s.inner.Sync(ctx, boardID, removeOrphans)
	s.metrics.ObserveSync("sync", err, result.Added, result.Removed)
	return result, err
}

func (s *instrumentedService) ValidateMove(ctx context.Context, projectID, fromStatusID, toStatusID string) app.MoveValidation {
	validation := s.inner.ValidateMove(ctx, projectID, fromStatusID, toStatusID)
	if !validation.Valid {
		s.metrics.ObserveRejectedMove()
	}
	return validation
}

func (s *instrumentedService) RouteDrop(ctx context.Context, req app.DropRequest) (app.DropResult, error) {
	result, err := s.inner.RouteDrop(ctx, req)
	if err == nil && !result.Committed {
		s.metrics.ObserveRejectedMove()
	}
	return result, err
}
