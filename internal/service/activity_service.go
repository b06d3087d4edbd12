package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/repository"
)

// ActivityActor represents the authenticated principal performing an action.
type ActivityActor struct {
	Principal string
	Role      string
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	Actor     string
	ActorRole string
	Action    string
	EntityID  *uint
	Metadata  map[string]interface{}
}

// ActivityRecorder defines behaviour for recording audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService exposes methods to persist and query the audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the audit trail service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}

	model := models.ActivityLog{
		Actor:     strings.TrimSpace(entry.Actor),
		ActorRole: strings.ToLower(strings.TrimSpace(entry.ActorRole)),
		Action:    strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityID:  entry.EntityID,
		Metadata:  entry.Metadata,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist activity log")
		return err
	}

	return nil
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityResponse, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewActivityResponseSlice(entries), nil
}
