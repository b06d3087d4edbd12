// Package policy holds the pure eligibility predicates of the grading
// workflow. The functions keep no state and touch no storage or encryption
// machinery, so every deadline and role boundary can be tested exhaustively.
package policy

import (
	"strings"
	"time"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// IsCreator reports whether principal created the assignment.
func IsCreator(assignment models.Assignment, principal string) bool {
	return assignment.IsCreator(principal)
}

// IsPastDeadline reports whether the assignment deadline has been reached.
// The boundary is inclusive: now == deadline counts as passed.
func IsPastDeadline(assignment models.Assignment, now time.Time) bool {
	return assignment.IsPastDeadline(now)
}

// ValidateNewAssignment checks the creation preconditions: a non-blank title
// and a deadline strictly in the future.
func ValidateNewAssignment(title string, deadline, now time.Time) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}

	if !deadline.After(now) {
		return ErrInvalidDeadline
	}

	return nil
}

// CanSubmit decides whether principal may submit to the assignment right now.
// prior is the student's existing submission, nil when none exists. Checks run
// in the documented order: not the creator, before the deadline, no prior
// submission.
func CanSubmit(assignment models.Assignment, prior *models.Submission, principal string, now time.Time) error {
	if IsCreator(assignment, principal) {
		return ErrSelfSubmissionForbidden
	}

	if IsPastDeadline(assignment, now) {
		return ErrDeadlinePassed
	}

	if prior != nil {
		return ErrAlreadySubmitted
	}

	return nil
}

// CanStartGrading decides whether caller may set the grading-started latch.
func CanStartGrading(assignment models.Assignment, caller string, now time.Time) error {
	if !IsCreator(assignment, caller) {
		return ErrUnauthorized
	}

	if !IsPastDeadline(assignment, now) {
		return ErrDeadlineNotPassed
	}

	if assignment.GradingStarted {
		return ErrGradingAlreadyStarted
	}

	return nil
}

// CanGrade decides whether grader may record a grade for the given submission
// right now. submission and grade are the existing records for the
// (assignment, student) pair, nil when absent. Grading eligibility depends
// only on the deadline, never on the grading-started latch: the latch is an
// observability signal and failing to set it must not block grading.
func CanGrade(assignment models.Assignment, submission *models.Submission, grade *models.Grade, grader string, now time.Time) error {
	if !IsCreator(assignment, grader) {
		return ErrUnauthorized
	}

	if !IsPastDeadline(assignment, now) {
		return ErrGradingNotOpen
	}

	if submission == nil {
		return ErrNoSubmission
	}

	if grade != nil {
		return ErrAlreadyGraded
	}

	return nil
}
