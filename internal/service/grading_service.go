package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/ledger"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/policy"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

// ErrGradeNotFound indicates the requested grade does not exist.
var ErrGradeNotFound = errors.New("grade not found")

// GradingService encapsulates the encrypted grading workflow.
type GradingService interface {
	Grade(ctx context.Context, grader string, payload dto.GradeCreateRequest) (dto.GradeResponse, error)
	Get(ctx context.Context, assignmentID uint, studentID string) (dto.GradeResponse, error)
	HasGrade(ctx context.Context, assignmentID uint, studentID string) (bool, error)
}

type gradingService struct {
	grades      repository.GradeRepository
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	store       cipherstore.Store
	seq         *ledger.Sequencer
	validator   *validator.Validate
	events      EventPublisher
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
	tracer      trace.Tracer
}

// NewGradingService constructs the grading service.
func NewGradingService(gradeRepo repository.GradeRepository, subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, store cipherstore.Store, seq *ledger.Sequencer, validate *validator.Validate, events EventPublisher, activity ActivityRecorder, logger zerolog.Logger) GradingService {
	return &gradingService{
		grades:      gradeRepo,
		submissions: subRepo,
		assignments: assignmentRepo,
		store:       store,
		seq:         seq,
		validator:   validate,
		events:      events,
		activity:    activity,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
		tracer:      otel.Tracer("github.com/sealgrade/sealgrade-api/internal/service/grading"),
	}
}

// Grade checks eligibility in order (assignment exists, grader is the
// creator, deadline reached, a submission exists, not yet graded), ingests
// the encrypted score and grants decryption rights to the student only.
// Grading never consults the grading-started latch; the deadline alone gates
// it.
func (s *gradingService) Grade(ctx context.Context, grader string, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.record")
	span.SetAttributes(
		attribute.Int64("grading.assignment_id", int64(payload.AssignmentID)),
		attribute.String("grading.student", payload.StudentID),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	ciphertext, proof, err := decodePayload(payload.Ciphertext, payload.Proof)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload_decode_failed")
		return dto.GradeResponse{}, err
	}

	var grade models.Grade

	err = s.seq.Apply(ctx, func(ctx context.Context) error {
		assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		submission, err := s.lookupSubmission(ctx, payload.AssignmentID, payload.StudentID)
		if err != nil {
			return err
		}

		existing, err := s.lookupGrade(ctx, payload.AssignmentID, payload.StudentID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := policy.CanGrade(assignment, submission, existing, grader, now); err != nil {
			return err
		}

		handle, err := s.store.Ingest(ctx, ciphertext, proof)
		if err != nil {
			return err
		}

		// Only the graded student may ever decrypt the score.
		if err := s.store.GrantAccess(ctx, handle, payload.StudentID); err != nil {
			return err
		}

		grade = models.Grade{
			AssignmentID: assignment.ID,
			StudentID:    payload.StudentID,
			ScoreHandle:  string(handle),
			GradedAt:     now,
		}

		return s.grades.Create(ctx, &grade)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_rejected")
		return dto.GradeResponse{}, err
	}

	span.SetAttributes(attribute.String("grading.score_handle", grade.ScoreHandle))

	s.logger.Info().
		Uint("assignment_id", grade.AssignmentID).
		Str("student", grade.StudentID).
		Msg("grade recorded")

	if s.events != nil {
		s.events.Publish(ctx, EventGradeRecorded, dto.NewGradeResponse(grade))
	}
	if s.activity != nil {
		id := grade.AssignmentID
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:     grader,
			ActorRole: "teacher",
			Action:    EventGradeRecorded,
			EntityID:  &id,
			Metadata: map[string]interface{}{
				"student":      grade.StudentID,
				"score_handle": grade.ScoreHandle,
			},
		})
	}

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) Get(ctx context.Context, assignmentID uint, studentID string) (dto.GradeResponse, error) {
	grade, err := s.grades.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) HasGrade(ctx context.Context, assignmentID uint, studentID string) (bool, error) {
	_, err := s.grades.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *gradingService) lookupSubmission(ctx context.Context, assignmentID uint, studentID string) (*models.Submission, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &submission, nil
}

func (s *gradingService) lookupGrade(ctx context.Context, assignmentID uint, studentID string) (*models.Grade, error) {
	grade, err := s.grades.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &grade, nil
}
