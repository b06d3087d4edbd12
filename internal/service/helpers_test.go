package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type submissionKey struct {
	assignmentID uint
	studentID    string
}

type memoryAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{
		assignments: make(map[uint]models.Assignment),
		nextID:      1,
	}
}

func (m *memoryAssignmentRepo) List(context.Context) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]models.Assignment, 0, len(m.assignments))
	for _, assignment := range m.assignments {
		results = append(results, assignment)
	}
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignment.ID = m.nextID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) MarkGradingStarted(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignment, ok := m.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.GradingStarted = true
	m.assignments[id] = assignment
	return nil
}

type memorySubmissionRepo struct {
	mu          sync.Mutex
	submissions map[submissionKey]models.Submission
	assignments *memoryAssignmentRepo
	nextID      uint
	createErr   error
}

func newMemorySubmissionRepo(assignments *memoryAssignmentRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[submissionKey]models.Submission),
		assignments: assignments,
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID uint, studentID string) (models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	submission, ok := m.submissions[submissionKey{assignmentID, studentID}]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) ListByAssignment(_ context.Context, assignmentID uint) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]models.Submission, 0)
	for key, submission := range m.submissions {
		if key.assignmentID == assignmentID {
			results = append(results, submission)
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) CountByAssignment(_ context.Context, assignmentID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for key := range m.submissions {
		if key.assignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := submissionKey{submission.AssignmentID, submission.StudentID}
	if _, exists := m.submissions[key]; exists {
		return fmt.Errorf("unique constraint violated")
	}

	submission.ID = m.nextID
	m.nextID++
	m.submissions[key] = *submission

	m.assignments.mu.Lock()
	defer m.assignments.mu.Unlock()
	assignment := m.assignments.assignments[submission.AssignmentID]
	assignment.SubmissionCount++
	m.assignments.assignments[submission.AssignmentID] = assignment

	return nil
}

type memoryGradeRepo struct {
	mu     sync.Mutex
	grades map[submissionKey]models.Grade
	nextID uint
}

func newMemoryGradeRepo() *memoryGradeRepo {
	return &memoryGradeRepo{
		grades: make(map[submissionKey]models.Grade),
		nextID: 1,
	}
}

func (m *memoryGradeRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID uint, studentID string) (models.Grade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grade, ok := m.grades[submissionKey{assignmentID, studentID}]
	if !ok {
		return models.Grade{}, gorm.ErrRecordNotFound
	}
	return grade, nil
}

func (m *memoryGradeRepo) CountByAssignment(_ context.Context, assignmentID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for key := range m.grades {
		if key.assignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (m *memoryGradeRepo) Create(_ context.Context, grade *models.Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := submissionKey{grade.AssignmentID, grade.StudentID}
	if _, exists := m.grades[key]; exists {
		return fmt.Errorf("unique constraint violated")
	}

	grade.ID = m.nextID
	m.nextID++
	m.grades[key] = *grade

	return nil
}

// fakeStore records ingests and grants and can be told to reject proofs.
type fakeStore struct {
	ingests   int
	grants    map[cipherstore.Handle][]string
	ingestErr error
	grantErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{grants: make(map[cipherstore.Handle][]string)}
}

func (f *fakeStore) Ingest(_ context.Context, _, _ []byte) (cipherstore.Handle, error) {
	if f.ingestErr != nil {
		return "", f.ingestErr
	}
	f.ingests++
	return cipherstore.Handle(fmt.Sprintf("handle-%d", f.ingests)), nil
}

func (f *fakeStore) GrantAccess(_ context.Context, handle cipherstore.Handle, principal string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants[handle] = append(f.grants[handle], principal)
	return nil
}

type recordedEvent struct {
	event   string
	payload interface{}
}

type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) Publish(_ context.Context, event string, payload interface{}) {
	f.events = append(f.events, recordedEvent{event: event, payload: payload})
}

type fakeRecorder struct {
	entries []ActivityEntry
}

func (f *fakeRecorder) Record(_ context.Context, entry ActivityEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

var (
	_ repository.AssignmentRepository = (*memoryAssignmentRepo)(nil)
	_ repository.SubmissionRepository = (*memorySubmissionRepo)(nil)
	_ repository.GradeRepository      = (*memoryGradeRepo)(nil)
	_ cipherstore.Store               = (*fakeStore)(nil)
)
