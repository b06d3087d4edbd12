package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/ledger"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/policy"
	"github.com/sealgrade/sealgrade-api/internal/repository"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService exposes assignment lifecycle use cases.
type AssignmentService interface {
	List(ctx context.Context) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, creator string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	StartGrading(ctx context.Context, id uint, caller string) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	seq       *ledger.Sequencer
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	events    EventPublisher
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, seq *ledger.Sequencer, validate *validator.Validate, events EventPublisher, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		seq:       seq,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		events:    events,
		activity:  activity,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		now:       time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, creator string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid deadline: %w", err)
	}

	title := s.sanitizer.Sanitize(payload.Title)
	requirements := s.sanitizer.Sanitize(payload.Requirements)

	assignment := models.Assignment{
		Title:        title,
		Requirements: requirements,
		Deadline:     deadline,
		Creator:      creator,
	}

	err = s.seq.Apply(ctx, func(ctx context.Context) error {
		if err := policy.ValidateNewAssignment(title, deadline, s.now()); err != nil {
			return err
		}

		return s.repo.Create(ctx, &assignment)
	})
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Str("creator", creator).Msg("assignment created")

	if s.events != nil {
		s.events.Publish(ctx, EventAssignmentCreated, dto.NewAssignmentResponse(assignment))
	}
	s.recordActivity(ctx, creator, EventAssignmentCreated, assignment.ID, map[string]interface{}{
		"deadline": assignment.Deadline,
	})

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) StartGrading(ctx context.Context, id uint, caller string) (dto.AssignmentResponse, error) {
	var assignment models.Assignment

	err := s.seq.Apply(ctx, func(ctx context.Context) error {
		var err error
		assignment, err = s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if err := policy.CanStartGrading(assignment, caller, s.now()); err != nil {
			return err
		}

		if err := s.repo.MarkGradingStarted(ctx, id); err != nil {
			return err
		}

		assignment.GradingStarted = true

		return nil
	})
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("grading started")

	if s.events != nil {
		s.events.Publish(ctx, EventGradingStarted, dto.NewAssignmentResponse(assignment))
	}
	s.recordActivity(ctx, caller, EventGradingStarted, id, nil)

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) recordActivity(ctx context.Context, actor, action string, assignmentID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	id := assignmentID
	_ = s.activity.Record(ctx, ActivityEntry{
		Actor:     actor,
		ActorRole: "teacher",
		Action:    action,
		EntityID:  &id,
		Metadata:  metadata,
	})
}
