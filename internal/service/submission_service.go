package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/ledger"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/policy"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService orchestrates the encrypted submission workflow.
type SubmissionService interface {
	Submit(ctx context.Context, student string, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, assignmentID uint, studentID string) (dto.SubmissionResponse, error)
	HasSubmitted(ctx context.Context, assignmentID uint, studentID string) (bool, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	store       cipherstore.Store
	seq         *ledger.Sequencer
	validator   *validator.Validate
	events      EventPublisher
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, store cipherstore.Store, seq *ledger.Sequencer, validate *validator.Validate, events EventPublisher, activity ActivityRecorder, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		store:       store,
		seq:         seq,
		validator:   validate,
		events:      events,
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit runs the eligibility checks in order (assignment exists, caller is
// not the creator, before deadline, no prior submission), ingests the
// ciphertext, grants the assignment creator decryption rights over the
// resulting handle, and stores the submission while bumping the assignment's
// counter. Any failed check or a rejected proof leaves no state behind.
func (s *submissionService) Submit(ctx context.Context, student string, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	ciphertext, proof, err := decodePayload(payload.Ciphertext, payload.Proof)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	var submission models.Submission

	err = s.seq.Apply(ctx, func(ctx context.Context) error {
		assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		prior, err := s.lookup(ctx, payload.AssignmentID, student)
		if err != nil {
			return err
		}

		now := s.now()
		if err := policy.CanSubmit(assignment, prior, student, now); err != nil {
			return err
		}

		handle, err := s.store.Ingest(ctx, ciphertext, proof)
		if err != nil {
			return err
		}

		// The creator is the only party who may ever decrypt the answer;
		// the student already knows their own plaintext.
		if err := s.store.GrantAccess(ctx, handle, assignment.Creator); err != nil {
			return err
		}

		submission = models.Submission{
			AssignmentID: assignment.ID,
			StudentID:    student,
			AnswerHandle: string(handle),
			SubmittedAt:  now,
		}

		return s.submissions.Create(ctx, &submission)
	})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", submission.AssignmentID).
		Str("student", student).
		Msg("submission accepted")

	if s.events != nil {
		s.events.Publish(ctx, EventSubmissionAccepted, dto.NewSubmissionResponse(submission))
	}
	if s.activity != nil {
		id := submission.AssignmentID
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:     student,
			ActorRole: "student",
			Action:    EventSubmissionAccepted,
			EntityID:  &id,
			Metadata:  map[string]interface{}{"answer_handle": submission.AnswerHandle},
		})
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, assignmentID uint, studentID string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) HasSubmitted(ctx context.Context, assignmentID uint, studentID string) (bool, error) {
	_, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *submissionService) lookup(ctx context.Context, assignmentID uint, studentID string) (*models.Submission, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &submission, nil
}

func decodePayload(ciphertext, proof string) ([]byte, []byte, error) {
	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	rawProof, err := base64.StdEncoding.DecodeString(proof)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid proof encoding: %w", err)
	}

	return rawCiphertext, rawProof, nil
}
