package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoPlan is returned when a session has no lesson plan to print.
var ErrNoPlan = errors.New("no lesson plan found")

// PlanSource finds the latest lesson plan of a session.
type PlanSource interface {
	LatestPlan(ctx context.Context, sessionID string) (string, bool)
}

// Service builds and renders lesson plan PDFs.
type Service struct {
	renderer Renderer
	plans    PlanSource
	now      func() time.Time
	log      *zap.Logger
}

// NewService creates a PDF service.
func NewService(renderer Renderer, plans PlanSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{renderer: renderer, plans: plans, now: time.Now, log: log.Named("pdf")}
}

// Render prints content as a lesson plan document.
func (s *Service) Render(ctx context.Context, content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoPlan
	}
	doc, err := BuildDocument(content, ExtractInfo(content, s.now()))
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	s.log.Info("pdf rendered", zap.Int("bytes", len(out)), zap.Duration("took", time.Since(start)))
	return out, nil
}

// RenderLatest prints the session's most recent lesson plan.
func (s *Service) RenderLatest(ctx context.Context, sessionID string) ([]byte, error) {
	content, ok := s.plans.LatestPlan(ctx, sessionID)
	if !ok {
		return nil, ErrNoPlan
	}
	return s.Render(ctx, content)
}
