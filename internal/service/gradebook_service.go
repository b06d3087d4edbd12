package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/policy"
	"github.com/sealgrade/sealgrade-api/internal/repository"
)

// GradebookService produces the teacher-facing grading progress summary.
type GradebookService interface {
	Summary(ctx context.Context, assignmentID uint, caller string) (dto.GradebookSummaryResponse, error)
}

type gradebookService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	grades      repository.GradeRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradebookService builds the summary aggregator.
func NewGradebookService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, grades repository.GradeRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		assignments: assignments,
		submissions: submissions,
		grades:      grades,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "gradebook_service").Logger(),
		now:         time.Now,
	}
}

// Summary is cached per assignment for the configured TTL, so counts may lag
// a just-accepted submission by up to that interval.
func (s *gradebookService) Summary(ctx context.Context, assignmentID uint, caller string) (dto.GradebookSummaryResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradebookSummaryResponse{}, ErrAssignmentNotFound
		}
		return dto.GradebookSummaryResponse{}, err
	}

	if !policy.IsCreator(assignment, caller) {
		return dto.GradebookSummaryResponse{}, policy.ErrUnauthorized
	}

	cacheKey := fmt.Sprintf("gradebook:assignment:%d", assignmentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.GradebookSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("assignment_id", assignmentID).Msg("gradebook cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read gradebook cache")
		}
	}

	submitted, err := s.submissions.CountByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.GradebookSummaryResponse{}, err
	}

	graded, err := s.grades.CountByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.GradebookSummaryResponse{}, err
	}

	now := s.now()
	response := dto.GradebookSummaryResponse{
		AssignmentID:         assignment.ID,
		Title:                assignment.Title,
		Deadline:             assignment.Deadline,
		SubmissionCount:      uint(submitted),
		GradedCount:          uint(graded),
		PendingCount:         uint(submitted - graded),
		GradingStarted:       assignment.GradingStarted,
		AcceptingSubmissions: !policy.IsPastDeadline(assignment, now),
		GeneratedAt:          now.UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store gradebook cache")
			}
		}
	}

	return response, nil
}
