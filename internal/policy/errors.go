package policy

import "errors"

// Precondition errors returned by the eligibility predicates. Services
// propagate these unchanged; handlers map them to HTTP statuses.
var (
	// ErrEmptyTitle indicates an assignment was created without a title.
	ErrEmptyTitle = errors.New("assignment title must not be empty")

	// ErrInvalidDeadline indicates the deadline is not strictly in the future.
	ErrInvalidDeadline = errors.New("assignment deadline must be in the future")

	// ErrUnauthorized indicates the caller is not the assignment creator.
	ErrUnauthorized = errors.New("caller is not the assignment creator")

	// ErrSelfSubmissionForbidden indicates the creator tried to submit to
	// their own assignment.
	ErrSelfSubmissionForbidden = errors.New("creator cannot submit to their own assignment")

	// ErrDeadlinePassed indicates a submission arrived at or after the deadline.
	ErrDeadlinePassed = errors.New("submission deadline has passed")

	// ErrDeadlineNotPassed indicates grading was started before the deadline.
	ErrDeadlineNotPassed = errors.New("deadline has not passed yet")

	// ErrGradingNotOpen indicates a grade was attempted before the deadline.
	ErrGradingNotOpen = errors.New("grading opens once the deadline has passed")

	// ErrAlreadySubmitted indicates a second submission for the same pair.
	ErrAlreadySubmitted = errors.New("student has already submitted")

	// ErrAlreadyGraded indicates a second grade for the same pair.
	ErrAlreadyGraded = errors.New("submission has already been graded")

	// ErrGradingAlreadyStarted indicates the grading latch was already set.
	ErrGradingAlreadyStarted = errors.New("grading has already been started")

	// ErrNoSubmission indicates a grade was attempted without a submission.
	ErrNoSubmission = errors.New("student has no submission to grade")
)
